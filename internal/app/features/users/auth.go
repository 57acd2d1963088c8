// internal/app/features/users/auth.go
package users

import (
	"errors"
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/normalize"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

var errBadCredentials = apperr.Unauthorized("invalid credentials", nil)

// RegisterSuperAdmin handles POST /user/superadmin. It succeeds exactly
// once per deployment.
func (h *Handler) RegisterSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var in superAdminInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "register superadmin", err)
		return
	}
	in.Role = normalize.Role(in.Role)
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "register superadmin", err)
		return
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.ErrLog.Write(w, r, "register superadmin", apperr.Unexpected(err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "register superadmin")
	defer cancel()

	u, err := h.Store.CreateSuperAdmin(ctx, models.User{Name: in.Name, Email: &in.Email, Password: hash})
	if err != nil {
		h.ErrLog.Write(w, r, "register superadmin", storeErr(err, "superadmin"))
		return
	}
	h.Log.Info("superadmin registered", zap.String("user_id", u.ID))
	h.issue(w, r, http.StatusCreated, "superadmin registered", u, true)
}

// Login handles POST /user/login-admin for admins and the superadmin.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "login", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "login", err)
		return
	}
	if err := h.Guard.Check(r, in.Email); err != nil {
		h.ErrLog.Write(w, r, "login", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Store.GetByEmail(ctx, in.Email)
	if errors.Is(err, docstore.ErrNotFound) {
		h.ErrLog.Write(w, r, "login", errBadCredentials)
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, "login", storeErr(err, "user"))
		return
	}
	if u.Role != models.RoleAdmin && u.Role != models.RoleSuperAdmin {
		h.ErrLog.Write(w, r, "login", errBadCredentials)
		return
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		h.ErrLog.Write(w, r, "login", errBadCredentials)
		return
	}
	h.Guard.Succeeded(in.Email)
	h.Log.Info("login", zap.String("user_id", u.ID), zap.String("role", u.Role))
	h.issue(w, r, http.StatusOK, "login successful", u, false)
}

// RefreshToken handles POST /user/refresh, trading the refresh cookie for
// a new access token. The user must still exist.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	raw, err := h.Refresh.Token(r)
	if err != nil {
		msg := "invalid refresh token"
		if errors.Is(err, auth.ErrNoRefresh) {
			msg = "refresh token required"
		}
		h.ErrLog.Write(w, r, "refresh", apperr.Unauthorized(msg, err))
		return
	}
	claims, err := h.Tokens.VerifyRefresh(raw)
	if err != nil {
		msg := "invalid refresh token"
		if errors.Is(err, auth.ErrTokenExpired) {
			msg = "refresh token expired"
		}
		h.ErrLog.Write(w, r, "refresh", apperr.Unauthorized(msg, err))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "refresh")
	defer cancel()

	u, err := h.Store.GetByRoleAndID(ctx, claims.Role, claims.UserID)
	if errors.Is(err, docstore.ErrNotFound) {
		h.ErrLog.Write(w, r, "refresh", apperr.Unauthorized("user no longer exists", err))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, "refresh", storeErr(err, "user"))
		return
	}
	tok, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		h.ErrLog.Write(w, r, "refresh", apperr.Unexpected(err))
		return
	}
	respond.JSON(w, http.StatusOK, tokenBody{Message: "token refreshed", Token: tok})
}

// issue writes an access token in the body and a refresh token in the
// cookie.
func (h *Handler) issue(w http.ResponseWriter, r *http.Request, status int, msg string, u models.User, withUser bool) {
	access, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		h.ErrLog.Write(w, r, msg, apperr.Unexpected(err))
		return
	}
	refresh, err := h.Tokens.IssueRefresh(u.ID, u.Role)
	if err != nil {
		h.ErrLog.Write(w, r, msg, apperr.Unexpected(err))
		return
	}
	if err := h.Refresh.Save(w, r, refresh); err != nil {
		h.ErrLog.Write(w, r, msg, apperr.Unexpected(err))
		return
	}
	body := tokenBody{Message: msg, Token: access}
	if withUser {
		body.User = &u
	}
	respond.JSON(w, status, body)
}
