package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"rab-dashboard/internal/audit"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/errors"
	"rab-dashboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Catalog exposes create, update and delete for one catalog collection
// (projects, price items, work items). Reads go through the dashboard snapshot.
type Catalog[T any] struct {
	Name string
	// ID reads the id of a created record for the activity log.
	ID     func(T) string
	Create func(ctx context.Context, rec T) (T, error)
	Patch  func(ctx context.Context, id string, patch domain.Patch) (T, error)
	Remove func(ctx context.Context, id string) error
	Audit  audit.Recorder
}

func (r *Catalog[T]) record(c *gin.Context, action, id string) {
	if r.Audit == nil {
		return
	}
	actor, _ := middleware.CurrentUser(c)
	r.Audit.Record(actor.Username, action+" "+r.Name, id, "")
}

func (r *Catalog[T]) HandleCreate(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	created, err := r.Create(c.Request.Context(), rec)
	if err != nil {
		c.Error(errors.FromStore(err, r.Name))
		return
	}

	var id string
	if r.ID != nil {
		id = r.ID(created)
	}
	r.record(c, "create", id)
	c.JSON(http.StatusCreated, created)
}

func (r *Catalog[T]) HandleUpdate(c *gin.Context) {
	var patch domain.Patch
	if err := json.NewDecoder(c.Request.Body).Decode(&patch); err != nil {
		c.Error(errors.BadRequest("Invalid request body", err))
		return
	}
	if len(patch) == 0 {
		c.Error(errors.BadRequest("Nothing to update", nil))
		return
	}

	id := c.Param("id")
	updated, err := r.Patch(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(errors.FromStore(err, r.Name))
		return
	}

	r.record(c, "update", id)
	c.JSON(http.StatusOK, updated)
}

func (r *Catalog[T]) HandleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := r.Remove(c.Request.Context(), id); err != nil {
		c.Error(errors.FromStore(err, r.Name))
		return
	}

	r.record(c, "delete", id)
	c.Status(http.StatusNoContent)
}
