package user

import (
	"net/http"
	"rab-dashboard/auth"
	"rab-dashboard/internal/errors"
	"rab-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for users
type Handler struct {
	service Service
	tokens  *auth.TokenManager
}

// NewHandler creates a new user handler
func NewHandler(service Service, tokens *auth.TokenManager) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var form FormLogin
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	user, err := h.service.Login(c.Request.Context(), form.Identifier, form.Password)
	if err != nil {
		c.Error(err)
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		c.Error(errors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: accessToken,
		User:        user.ToSafeUser(),
	})
}

// Logout handles user logout
func (h *Handler) Logout(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	if err := h.service.Logout(c.Request.Context(), actor.Username); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ShowSession returns the current session, or null when logged out.
func (h *Handler) ShowSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": h.service.CurrentUser(c.Request.Context())})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) Create(c *gin.Context) {
	var form FormCreateUser
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	actor, _ := middleware.CurrentUser(c)
	user, err := h.service.CreateUser(c.Request.Context(), actor.Username, &form)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user.ToSafeUser())
}

func (h *Handler) Update(c *gin.Context) {
	var form FormUpdateUser
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	actor, _ := middleware.CurrentUser(c)
	user, err := h.service.UpdateUser(c.Request.Context(), actor.Username, c.Param("id"), &form)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user.ToSafeUser())
}

func (h *Handler) Delete(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	if id == actor.ID {
		c.Error(errors.BadRequest("You cannot delete your own account", nil))
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), actor.Username, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
