// internal/app/features/levels/levels.go
package levels

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	levelstore "github.com/dalemusser/edutrack/internal/app/store/levels"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

type levelInput struct {
	Name string `json:"name" validate:"required,max=200"`
}

type updateInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

func storeErr(err error) error {
	return respond.StoreError(err, "level", levelstore.ErrDuplicateLevel)
}

// levelBody wraps a written level with a confirmation message.
type levelBody struct {
	Message string       `json:"message"`
	Level   models.Level `json:"level"`
}

// Create handles POST /level/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in levelInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create level", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create level", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create level")
	defer cancel()

	l, err := h.Store.Create(ctx, models.Level{Name: in.Name})
	if err != nil {
		h.ErrLog.Write(w, r, "create level", storeErr(err))
		return
	}
	h.Log.Info("level created", zap.String("level_id", l.ID.Hex()))
	respond.JSON(w, http.StatusCreated, levelBody{Message: "level created", Level: l})
}

// List handles GET /level/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list levels")
	defer cancel()

	list, err := h.Store.List(ctx, nil)
	if err != nil {
		h.ErrLog.Write(w, r, "list levels", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /level/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get level", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get level")
	defer cancel()

	l, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get level", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, l)
}

// Update handles PATCH /level/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update level", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update level", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update level", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update level", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update level")
	defer cancel()

	l, err := h.Store.Update(ctx, id, levelstore.Patch{Name: in.Name})
	if err != nil {
		h.ErrLog.Write(w, r, "update level", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, levelBody{Message: "level updated", Level: l})
}

// Delete handles DELETE /level/del/{id}. Categories (with their
// activities and videos) and batches of the level are removed; students
// in those batches are kept.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete level", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete level")
	defer cancel()

	rep, err := h.Cascade.Delete(ctx, cascade.Level, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete level", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("level deleted", rep.Deleted))
}
