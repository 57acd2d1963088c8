// internal/app/features/users/parents.go
package users

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	userstore "github.com/dalemusser/edutrack/internal/app/store/users"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/normalize"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

// CreateParent handles POST /user/add-parent.
func (h *Handler) CreateParent(w http.ResponseWriter, r *http.Request) {
	var in parentInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create parent", err)
		return
	}
	in.Role = normalize.Role(in.Role)
	in.Mobile = normalize.Mobile(in.Mobile)
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create parent", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create parent")
	defer cancel()

	instID := respond.MustID(in.InstituteID)
	if err := h.Refs.Check(ctx, refcheck.To("institute_id", models.CollInstitutes, instID)); err != nil {
		h.ErrLog.Write(w, r, "create parent", err)
		return
	}
	u, err := h.Store.Create(ctx, models.User{
		Name:        in.Name,
		Mobile:      &in.Mobile,
		Role:        models.RoleParent,
		InstituteID: &instID,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "create parent", storeErr(err, "parent"))
		return
	}
	h.Log.Info("parent created", zap.String("user_id", u.ID))
	respond.JSON(w, http.StatusCreated, userBody{Message: "parent created", User: u})
}

// ListParents handles GET /user/parents.
func (h *Handler) ListParents(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RoleParent, "list parents")
}

// GetParent handles GET /user/parent/{id}.
func (h *Handler) GetParent(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, models.RoleParent, "parent")
}

// UpdateParent handles PATCH /user/upd-parent/{id}.
func (h *Handler) UpdateParent(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "update parent", err)
		return
	}
	var in parentPatch
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update parent", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update parent", err)
		return
	}
	if in.Mobile != nil {
		in.Mobile = strPtr(normalize.Mobile(*in.Mobile))
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update parent", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update parent")
	defer cancel()

	p := userstore.Patch{Name: in.Name, Mobile: in.Mobile, InstituteID: respond.OptionalID(in.InstituteID)}
	if err := h.Refs.Check(ctx, refcheck.To("institute_id", models.CollInstitutes, p.InstituteID)); err != nil {
		h.ErrLog.Write(w, r, "update parent", err)
		return
	}
	u, err := h.Store.Update(ctx, models.RoleParent, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update parent", storeErr(err, "parent"))
		return
	}
	respond.JSON(w, http.StatusOK, userBody{Message: "parent updated", User: u})
}

// DeleteParent handles DELETE /user/del-parent/{id}, removing the parent's
// students in the same transaction.
func (h *Handler) DeleteParent(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "delete parent", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete parent")
	defer cancel()

	rep, err := h.Cascade.Delete(ctx, cascade.Parent, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete parent", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("parent deleted", rep.Deleted))
}
