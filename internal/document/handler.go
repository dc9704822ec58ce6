package document

import (
	"encoding/json"
	"net/http"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/errors"
	"rab-dashboard/internal/middleware"
	"rab-dashboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func kindParam(c *gin.Context) (domain.DocumentKind, error) {
	kind, ok := domain.ParseKind(c.Param("kind"))
	if !ok {
		return "", errors.NotFound("Unknown document kind", nil)
	}
	return kind, nil
}

func (h *Handler) List(c *gin.Context) {
	kind, err := kindParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	actor, _ := middleware.CurrentUser(c)
	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.ListDocuments(c.Request.Context(), actor, kind, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Show serves GET /documents/:kind/:id; a document from the other collection is not found.
func (h *Handler) Show(c *gin.Context) {
	kind, err := kindParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	actor, _ := middleware.CurrentUser(c)
	result, err := h.service.GetDocument(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if result.Kind != kind {
		c.Error(errors.NotFound("Document not found", nil))
		return
	}

	c.JSON(http.StatusOK, result.Document)
}

func (h *Handler) Create(c *gin.Context) {
	kind, err := kindParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	var fields domain.BudgetDocument
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	fields.ID = ""

	actor, _ := middleware.CurrentUser(c)
	doc, err := h.service.CreateDocument(c.Request.Context(), actor, kind, fields)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// Update takes any subset of document fields.
func (h *Handler) Update(c *gin.Context) {
	var patch domain.Patch
	if err := json.NewDecoder(c.Request.Body).Decode(&patch); err != nil {
		c.Error(errors.BadRequest("Invalid request body", err))
		return
	}
	if len(patch) == 0 {
		c.Error(errors.BadRequest("Nothing to update", nil))
		return
	}

	actor, _ := middleware.CurrentUser(c)
	doc, err := h.service.UpdateDocument(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	if err := h.service.DeleteDocument(c.Request.Context(), actor, c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
