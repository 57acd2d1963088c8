// internal/app/features/batches/batches.go
package batches

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	batchstore "github.com/dalemusser/edutrack/internal/app/store/batches"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	LevelID     *string `json:"level_id" validate:"omitempty,objectid"`
	BranchID    *string `json:"branch_id" validate:"omitempty,objectid"`
	InstituteID *string `json:"institute_id" validate:"omitempty,objectid"`
}

type updateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	LevelID     *string `json:"level_id" validate:"omitempty,objectid"`
	BranchID    *string `json:"branch_id" validate:"omitempty,objectid"`
	InstituteID *string `json:"institute_id" validate:"omitempty,objectid"`
}

// refs lists the optional references of a batch; unset ones are skipped.
func refs(level, branch, institute *primitive.ObjectID) []refcheck.Ref {
	return []refcheck.Ref{
		refcheck.To("level_id", models.CollLevels, level),
		refcheck.To("branch_id", models.CollBranches, branch),
		refcheck.To("institute_id", models.CollInstitutes, institute),
	}
}

func storeErr(err error) error {
	return respond.StoreError(err, "batch", batchstore.ErrDuplicateBatch)
}

// batchBody wraps a written batch with a confirmation message.
type batchBody struct {
	Message string       `json:"message"`
	Batch   models.Batch `json:"batch"`
}

// Create handles POST /batch/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create batch", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create batch", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create batch")
	defer cancel()

	b := models.Batch{
		Name:        in.Name,
		LevelID:     respond.OptionalID(in.LevelID),
		BranchID:    respond.OptionalID(in.BranchID),
		InstituteID: respond.OptionalID(in.InstituteID),
	}
	if err := h.Refs.Check(ctx, refs(b.LevelID, b.BranchID, b.InstituteID)...); err != nil {
		h.ErrLog.Write(w, r, "create batch", err)
		return
	}
	b, err := h.Store.Create(ctx, b)
	if err != nil {
		h.ErrLog.Write(w, r, "create batch", storeErr(err))
		return
	}
	h.Log.Info("batch created", zap.String("batch_id", b.ID.Hex()))
	respond.JSON(w, http.StatusCreated, batchBody{Message: "batch created", Batch: b})
}

// List handles GET /batch/. The level_id, branch_id and institute_id
// query parameters narrow the list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := docstore.Filter{}
	for _, field := range []string{"level_id", "branch_id", "institute_id"} {
		raw := r.URL.Query().Get(field)
		if raw == "" {
			continue
		}
		id := respond.OptionalID(&raw)
		if id == nil {
			h.ErrLog.Write(w, r, "list batches", respond.InvalidQueryID(field))
			return
		}
		f[field] = *id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list batches")
	defer cancel()

	list, err := h.Store.List(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, "list batches", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /batch/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get batch", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get batch")
	defer cancel()

	b, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get batch", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, b)
}

// Update handles PATCH /batch/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update batch", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update batch", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update batch", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update batch", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update batch")
	defer cancel()

	p := batchstore.Patch{
		Name:        in.Name,
		LevelID:     respond.OptionalID(in.LevelID),
		BranchID:    respond.OptionalID(in.BranchID),
		InstituteID: respond.OptionalID(in.InstituteID),
	}
	if err := h.Refs.Check(ctx, refs(p.LevelID, p.BranchID, p.InstituteID)...); err != nil {
		h.ErrLog.Write(w, r, "update batch", err)
		return
	}
	b, err := h.Store.Update(ctx, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update batch", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, batchBody{Message: "batch updated", Batch: b})
}

// Delete handles DELETE /batch/del/{id}, removing the students enrolled in it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete batch", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete batch")
	defer cancel()

	rep, err := h.Cascade.Delete(ctx, cascade.Batch, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete batch", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("batch deleted", rep.Deleted))
}
