package middleware

import (
	"errors"
	"log/slog"
	apiError "rab-dashboard/internal/errors"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apiError.APIError
			if !errors.As(err, &apiErr) {
				// If it's a raw error we didn't wrap, treat as Internal
				apiErr = apiError.Internal(err)
			}

			if apiErr.Status >= 500 {
				slog.Error("request failed", "path", c.FullPath(), "error", apiErr.Internal)
			} else {
				slog.Info(apiErr.Message, "path", c.FullPath(), "status", apiErr.Status, "error", apiErr.Internal)
			}

			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
