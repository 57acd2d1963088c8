// internal/app/features/videos/videos.go
package videos

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	videostore "github.com/dalemusser/edutrack/internal/app/store/videos"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

// A video must belong to a category; an uncategorized video would be
// unreachable by any cascade.
type createInput struct {
	URL         string `json:"url" validate:"required,url"`
	CategoryID  string `json:"category_id" validate:"required,objectid"`
	Description string `json:"description" validate:"max=5000"`
}

type updateInput struct {
	URL         *string `json:"url" validate:"omitempty,url"`
	CategoryID  *string `json:"category_id" validate:"omitempty,objectid"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

func storeErr(err error) error {
	return respond.StoreError(err, "video")
}

// videoBody wraps a written video with a confirmation message.
type videoBody struct {
	Message string       `json:"message"`
	Video   models.Video `json:"video"`
}

// Create handles POST /video/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create video", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create video", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create video")
	defer cancel()

	catID := respond.MustID(in.CategoryID)
	if err := h.Refs.Check(ctx, refcheck.To("category_id", models.CollCategories, catID)); err != nil {
		h.ErrLog.Write(w, r, "create video", err)
		return
	}
	v, err := h.Store.Create(ctx, models.Video{URL: in.URL, CategoryID: catID, Description: in.Description})
	if err != nil {
		h.ErrLog.Write(w, r, "create video", storeErr(err))
		return
	}
	h.Log.Info("video created", zap.String("video_id", v.ID.Hex()))
	respond.JSON(w, http.StatusCreated, videoBody{Message: "video created", Video: v})
}

// List handles GET /video/, optionally narrowed by ?category_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f docstore.Filter
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id := respond.OptionalID(&raw)
		if id == nil {
			h.ErrLog.Write(w, r, "list videos", respond.InvalidQueryID("category_id"))
			return
		}
		f = docstore.Filter{"category_id": *id}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list videos")
	defer cancel()

	list, err := h.Store.List(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, "list videos", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /video/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get video", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get video")
	defer cancel()

	v, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get video", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, v)
}

// Update handles PATCH /video/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update video", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update video", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update video", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update video", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update video")
	defer cancel()

	p := videostore.Patch{URL: in.URL, Description: in.Description, CategoryID: respond.OptionalID(in.CategoryID)}
	if err := h.Refs.Check(ctx, refcheck.To("category_id", models.CollCategories, p.CategoryID)); err != nil {
		h.ErrLog.Write(w, r, "update video", err)
		return
	}
	v, err := h.Store.Update(ctx, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update video", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, videoBody{Message: "video updated", Video: v})
}

// Delete handles DELETE /video/del/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete video", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete video")
	defer cancel()

	removed, err := h.Store.Delete(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete video", storeErr(err))
		return
	}
	if !removed {
		h.ErrLog.Write(w, r, "delete video", apperr.NotFound("video"))
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("video deleted", nil))
}
