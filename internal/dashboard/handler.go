package dashboard

import (
	"net/http"
	"rab-dashboard/internal/errors"
	"rab-dashboard/internal/middleware"
	"rab-dashboard/internal/store"
	"rab-dashboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Show serves the aggregate read. It always answers 200.
func (h *Handler) Show(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}

func (h *Handler) SaveAll(c *gin.Context) {
	var bundle store.Bundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	actor, _ := middleware.CurrentUser(c)
	if err := h.service.SaveAll(c.Request.Context(), actor.Username, bundle); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context()))
}

func (h *Handler) ListPosts(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Posts(c.Request.Context()))
}

func (h *Handler) CreatePost(c *gin.Context) {
	var form FormPost
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	actor, _ := middleware.CurrentUser(c)
	post, err := h.service.CreatePost(c.Request.Context(), actor, &form)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	if err := h.service.DeletePost(c.Request.Context(), actor.Username, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListLogs(c *gin.Context) {
	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.Logs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
