// internal/app/features/activities/activities.go
package activities

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	activitystore "github.com/dalemusser/edutrack/internal/app/store/activities"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	Name       string `json:"name" validate:"required,max=200"`
	CategoryID string `json:"category_id" validate:"required,objectid"`
	Thumbnail  string `json:"thumbnail" validate:"required,url"`
	Point      *int   `json:"point" validate:"required,min=0"`
}

type updateInput struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID *string `json:"category_id" validate:"omitempty,objectid"`
	Thumbnail  *string `json:"thumbnail" validate:"omitempty,url"`
	Point      *int    `json:"point" validate:"omitempty,min=0"`
}

func storeErr(err error) error {
	return respond.StoreError(err, "activity", activitystore.ErrDuplicateActivity)
}

// activityBody wraps a written activity with a confirmation message.
type activityBody struct {
	Message  string          `json:"message"`
	Activity models.Activity `json:"activity"`
}

// Create handles POST /activity/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create activity", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create activity", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create activity")
	defer cancel()

	catID := respond.MustID(in.CategoryID)
	if err := h.Refs.Check(ctx, refcheck.To("category_id", models.CollCategories, catID)); err != nil {
		h.ErrLog.Write(w, r, "create activity", err)
		return
	}
	a, err := h.Store.Create(ctx, models.Activity{
		Name:       in.Name,
		CategoryID: catID,
		Thumbnail:  in.Thumbnail,
		Point:      *in.Point,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "create activity", storeErr(err))
		return
	}
	h.Log.Info("activity created", zap.String("activity_id", a.ID.Hex()))
	respond.JSON(w, http.StatusCreated, activityBody{Message: "activity created", Activity: a})
}

// List handles GET /activity/, optionally narrowed by ?category_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f docstore.Filter
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id := respond.OptionalID(&raw)
		if id == nil {
			h.ErrLog.Write(w, r, "list activities", respond.InvalidQueryID("category_id"))
			return
		}
		f = docstore.Filter{"category_id": *id}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list activities")
	defer cancel()

	list, err := h.Store.List(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, "list activities", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /activity/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get activity", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get activity")
	defer cancel()

	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get activity", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

// Update handles PATCH /activity/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update activity", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update activity", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update activity", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update activity", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update activity")
	defer cancel()

	p := activitystore.Patch{
		Name:       in.Name,
		Thumbnail:  in.Thumbnail,
		Point:      in.Point,
		CategoryID: respond.OptionalID(in.CategoryID),
	}
	if err := h.Refs.Check(ctx, refcheck.To("category_id", models.CollCategories, p.CategoryID)); err != nil {
		h.ErrLog.Write(w, r, "update activity", err)
		return
	}
	a, err := h.Store.Update(ctx, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update activity", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, activityBody{Message: "activity updated", Activity: a})
}

// Delete handles DELETE /activity/del/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete activity", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete activity")
	defer cancel()

	removed, err := h.Store.Delete(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete activity", storeErr(err))
		return
	}
	if !removed {
		h.ErrLog.Write(w, r, "delete activity", apperr.NotFound("activity"))
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("activity deleted", nil))
}
