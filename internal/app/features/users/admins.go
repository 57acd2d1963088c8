// internal/app/features/users/admins.go
package users

import (
	"net/http"
	"strings"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	userstore "github.com/dalemusser/edutrack/internal/app/store/users"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/normalize"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// userID reads a user key from the URL. User keys are strings, not
// ObjectIDs, so only emptiness is checked here.
func userID(r *http.Request) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		return "", apperr.Validation("invalid id", "id is required")
	}
	return id, nil
}

// RegisterAdmin handles POST /user/reg-admin.
func (h *Handler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var in adminInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "register admin", err)
		return
	}
	in.Role = normalize.Role(in.Role)
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "register admin", err)
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.Write(w, r, "register admin", apperr.Unexpected(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register admin")
	defer cancel()

	instID := respond.MustID(in.InstituteID)
	if err := h.Refs.Check(ctx, refcheck.To("institute_id", models.CollInstitutes, instID)); err != nil {
		h.ErrLog.Write(w, r, "register admin", err)
		return
	}
	u, err := h.Store.Create(ctx, models.User{
		Name:        in.Name,
		Email:       &in.Email,
		Password:    hash,
		Role:        models.RoleAdmin,
		InstituteID: &instID,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "register admin", storeErr(err, "admin"))
		return
	}
	h.Log.Info("admin registered", zap.String("user_id", u.ID), zap.String("institute_id", instID.Hex()))
	h.issue(w, r, http.StatusCreated, "admin registered", u, true)
}

// ListAdmins handles GET /user/admins.
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RoleAdmin, "list admins")
}

// GetAdmin handles GET /user/admin/{id}.
func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, models.RoleAdmin, "admin")
}

// UpdateAdmin handles PATCH /user/upd-admin/{id}. A new password is hashed
// before it is stored.
func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "update admin", err)
		return
	}
	var in adminPatch
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update admin", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update admin", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update admin", err)
		return
	}

	p := userstore.Patch{Name: in.Name, Email: in.Email, InstituteID: respond.OptionalID(in.InstituteID)}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			h.ErrLog.Write(w, r, "update admin", apperr.Unexpected(err))
			return
		}
		p.Password = strPtr(hash)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update admin")
	defer cancel()

	if err := h.Refs.Check(ctx, refcheck.To("institute_id", models.CollInstitutes, p.InstituteID)); err != nil {
		h.ErrLog.Write(w, r, "update admin", err)
		return
	}
	u, err := h.Store.Update(ctx, models.RoleAdmin, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update admin", storeErr(err, "admin"))
		return
	}
	respond.JSON(w, http.StatusOK, userBody{Message: "admin updated", User: u})
}

// DeleteAdmin handles DELETE /user/del-admin/{id}.
func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, models.RoleAdmin, "admin")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, role, op string) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, op)
	defer cancel()

	list, err := h.Store.ListByRole(ctx, role)
	if err != nil {
		h.ErrLog.Write(w, r, op, storeErr(err, "user"))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// get loads a single user; a user holding a different role is not found.
func (h *Handler) get(w http.ResponseWriter, r *http.Request, role, what string) {
	op := "get " + what
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, op, err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, op)
	defer cancel()

	u, err := h.Store.GetByRoleAndID(ctx, role, id)
	if err != nil {
		h.ErrLog.Write(w, r, op, storeErr(err, what))
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

func (h *Handler) deleteOne(w http.ResponseWriter, r *http.Request, role, what string) {
	op := "delete " + what
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, op, err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, op)
	defer cancel()

	removed, err := h.Store.Delete(ctx, role, id)
	if err != nil {
		h.ErrLog.Write(w, r, op, storeErr(err, what))
		return
	}
	if !removed {
		h.ErrLog.Write(w, r, op, apperr.NotFound(what))
		return
	}
	h.Log.Info(what+" deleted", zap.String("user_id", id))
	respond.JSON(w, http.StatusOK, respond.Deleted(what+" deleted", nil))
}
