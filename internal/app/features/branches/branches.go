// internal/app/features/branches/branches.go
package branches

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	branchstore "github.com/dalemusser/edutrack/internal/app/store/branches"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	InstituteID string `json:"institute_id" validate:"required,objectid"`
}

type updateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	InstituteID *string `json:"institute_id" validate:"omitempty,objectid"`
}

func storeErr(err error) error {
	return respond.StoreError(err, "branch", branchstore.ErrDuplicateBranch)
}

// branchBody wraps a written branch with a confirmation message.
type branchBody struct {
	Message string        `json:"message"`
	Branch  models.Branch `json:"branch"`
}

// Create handles POST /branch/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create branch", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create branch", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create branch")
	defer cancel()

	instID := respond.MustID(in.InstituteID)
	if err := h.Refs.Check(ctx, refcheck.To("institute_id", models.CollInstitutes, instID)); err != nil {
		h.ErrLog.Write(w, r, "create branch", err)
		return
	}
	b, err := h.Store.Create(ctx, models.Branch{Name: in.Name, InstituteID: instID})
	if err != nil {
		h.ErrLog.Write(w, r, "create branch", storeErr(err))
		return
	}
	h.Log.Info("branch created", zap.String("branch_id", b.ID.Hex()), zap.String("institute_id", instID.Hex()))
	respond.JSON(w, http.StatusCreated, branchBody{Message: "branch created", Branch: b})
}

// List handles GET /branch/. ?institute_id= narrows the list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f docstore.Filter
	if raw := r.URL.Query().Get("institute_id"); raw != "" {
		id := respond.OptionalID(&raw)
		if id == nil {
			h.ErrLog.Write(w, r, "list branches", respond.InvalidQueryID("institute_id"))
			return
		}
		f = docstore.Filter{"institute_id": *id}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list branches")
	defer cancel()

	list, err := h.Store.List(ctx, f)
	if err != nil {
		h.ErrLog.Write(w, r, "list branches", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /branch/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get branch", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get branch")
	defer cancel()

	b, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get branch", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, b)
}

// Update handles PATCH /branch/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update branch", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update branch", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update branch", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update branch", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update branch")
	defer cancel()

	p := branchstore.Patch{Name: in.Name, InstituteID: respond.OptionalID(in.InstituteID)}
	if err := h.Refs.Check(ctx, refcheck.To("institute_id", models.CollInstitutes, p.InstituteID)); err != nil {
		h.ErrLog.Write(w, r, "update branch", err)
		return
	}
	b, err := h.Store.Update(ctx, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update branch", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, branchBody{Message: "branch updated", Branch: b})
}

// Delete handles DELETE /branch/del/{id}, removing its batches and the
// students enrolled at the branch.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete branch", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete branch")
	defer cancel()

	rep, err := h.Cascade.Delete(ctx, cascade.Branch, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete branch", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("branch deleted", rep.Deleted))
}
