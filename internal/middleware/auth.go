package middleware

import (
	"context"
	"rab-dashboard/auth"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by Auth.AuthMiddleWare.
const (
	KeyUserID = "user_id"
	KeyUser   = "user"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	CurrentUser(ctx context.Context) *domain.Session
}

type Auth struct {
	UserService UserProvider
	Tokens      *auth.TokenManager
}

// AuthMiddleWare accepts a bearer token for an active user who holds the
// current session. Logging out anywhere invalidates every token.
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		parsedToken, err := m.Tokens.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, err := auth.GetUserID(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		user, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}
		if !user.IsActive() {
			ctx.Error(errors.Unauthorized("User is not active", nil))
			ctx.Abort()
			return
		}

		session := m.UserService.CurrentUser(ctx.Request.Context())
		if session == nil || session.User.ID != userID {
			ctx.Error(errors.Unauthorized("Session expired, please log in again", nil))
			ctx.Abort()
			return
		}

		ctx.Set(KeyUserID, userID)
		ctx.Set(KeyUser, user.ToSafeUser())
		ctx.Next()
	}
}

// RequirePermission must run after AuthMiddleWare.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok {
			ctx.Error(errors.Unauthorized("user not found", nil))
			ctx.Abort()
			return
		}
		if !user.HasPermission(perm) {
			ctx.Error(errors.Forbidden("Missing permission "+perm, nil))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleWare.
func CurrentUser(ctx *gin.Context) (domain.SafeUser, bool) {
	v, ok := ctx.Get(KeyUser)
	if !ok {
		return domain.SafeUser{}, false
	}
	user, ok := v.(domain.SafeUser)
	return user, ok
}
