// internal/app/features/categories/categories.go
package categories

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	categorystore "github.com/dalemusser/edutrack/internal/app/store/categories"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Thumbnail string `json:"thumbnail" validate:"required,url"`
	LevelID   string `json:"level_id" validate:"required,objectid"`
}

type updateInput struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Thumbnail *string `json:"thumbnail" validate:"omitempty,url"`
	LevelID   *string `json:"level_id" validate:"omitempty,objectid"`
}

func storeErr(err error) error {
	return respond.StoreError(err, "category", categorystore.ErrDuplicateCategory)
}

// categoryBody wraps a written category with a confirmation message.
type categoryBody struct {
	Message  string          `json:"message"`
	Category models.Category `json:"category"`
}

// Create handles POST /category/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create category", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create category", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create category")
	defer cancel()

	levelID := respond.MustID(in.LevelID)
	if err := h.Refs.Check(ctx, refcheck.To("level_id", models.CollLevels, levelID)); err != nil {
		h.ErrLog.Write(w, r, "create category", err)
		return
	}
	c, err := h.Store.Create(ctx, models.Category{Name: in.Name, Thumbnail: in.Thumbnail, LevelID: levelID})
	if err != nil {
		h.ErrLog.Write(w, r, "create category", storeErr(err))
		return
	}
	h.Log.Info("category created", zap.String("category_id", c.ID.Hex()), zap.String("level_id", levelID.Hex()))
	respond.JSON(w, http.StatusCreated, categoryBody{Message: "category created", Category: c})
}

// List handles GET /category/, optionally narrowed by ?level_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f docstore.Filter
	if raw := r.URL.Query().Get("level_id"); raw != "" {
		id := respond.OptionalID(&raw)
		if id == nil {
			h.ErrLog.Write(w, r, "list categories", respond.InvalidQueryID("level_id"))
			return
		}
		f = docstore.Filter{"level_id": *id}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list categories")
	defer cancel()

	list, err := h.Store.List(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, "list categories", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /category/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get category", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get category")
	defer cancel()

	c, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get category", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// Update handles PATCH /category/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update category", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update category", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update category", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update category", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update category")
	defer cancel()

	p := categorystore.Patch{Name: in.Name, Thumbnail: in.Thumbnail, LevelID: respond.OptionalID(in.LevelID)}
	if err := h.Refs.Check(ctx, refcheck.To("level_id", models.CollLevels, p.LevelID)); err != nil {
		h.ErrLog.Write(w, r, "update category", err)
		return
	}
	c, err := h.Store.Update(ctx, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update category", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, categoryBody{Message: "category updated", Category: c})
}

// Delete handles DELETE /category/del/{id} along with its activities and videos.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete category", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete category")
	defer cancel()

	rep, err := h.Cascade.Delete(ctx, cascade.Category, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete category", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("category deleted", rep.Deleted))
}
