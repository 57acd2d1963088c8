// internal/app/system/authz/authz.go
//
// Package authz gates routes by role. Each route declares the roles that may
// invoke it when it is registered; there is no global role table.
package authz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Common role sets.
var (
	SuperAdminOnly = []string{models.RoleSuperAdmin}
	Staff          = []string{models.RoleSuperAdmin, models.RoleAdmin}
)

// Verifier turns a bearer token into claims.
type Verifier interface {
	Verify(token string) (auth.Claims, error)
}

// Route is one authorized endpoint. A nil Roles slice means public.
type Route struct {
	Method  string
	Pattern string
	Roles   []string
	Handler http.HandlerFunc
}

// Public reports whether the route skips the gate.
func (rt Route) Public() bool { return rt.Roles == nil }

// Allows reports whether role may invoke the route.
func (rt Route) Allows(role string) bool {
	if rt.Public() {
		return true
	}
	for _, r := range rt.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Gate verifies credentials and enforces route role sets.
type Gate struct {
	v   Verifier
	log *zap.Logger
}

// NewGate returns a Gate using v.
func NewGate(v Verifier, log *zap.Logger) *Gate {
	return &Gate{v: v, log: log}
}

type ctxKey struct{}

// CurrentClaims returns the verified claims placed on the request by the gate.
func CurrentClaims(r *http.Request) (auth.Claims, bool) {
	c, ok := r.Context().Value(ctxKey{}).(auth.Claims)
	return c, ok
}

// WithClaims attaches claims to ctx.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// Require returns middleware admitting only callers holding one of roles.
// Missing, invalid, or expired credentials are 401; a valid credential for
// another role is 403. Either way next does not run.
func (g *Gate) Require(roles ...string) func(http.Handler) http.Handler {
	rt := Route{Roles: roles}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				deny(w, apperr.Unauthorized("missing bearer token", nil).
					WithDetail("send an Authorization header of the form: Bearer <token>"))
				return
			}
			claims, err := g.v.Verify(token)
			if err != nil {
				e := apperr.Unauthorized("invalid token", err).WithDetail("sign in again to obtain a new token")
				if errors.Is(err, auth.ErrTokenExpired) {
					e = apperr.Unauthorized("token expired", err).WithDetail("exchange the refresh cookie at POST /user/refresh")
				}
				g.log.Debug("rejected credential", zap.String("path", r.URL.Path), zap.Error(err))
				deny(w, e)
				return
			}
			if !rt.Allows(claims.Role) {
				g.log.Info("forbidden by role",
					zap.String("path", r.URL.Path),
					zap.String("role", claims.Role),
					zap.String("user_id", claims.UserID))
				deny(w, apperr.Forbidden("role not permitted for this route").
					WithDetail("allowed roles: "+strings.Join(rt.Roles, ", ")))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Mount registers routes on r, wrapping each non-public route in the gate.
func (g *Gate) Mount(r chi.Router, routes []Route) {
	for _, rt := range routes {
		if rt.Public() {
			r.Method(rt.Method, rt.Pattern, rt.Handler)
			continue
		}
		r.With(g.Require(rt.Roles...)).Method(rt.Method, rt.Pattern, rt.Handler)
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// deny writes the same body the error logger does.
func deny(w http.ResponseWriter, e *apperr.Error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apperr.Status(e))
	_ = json.NewEncoder(w).Encode(apperr.BodyOf(e))
}
