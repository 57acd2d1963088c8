// internal/app/features/levels/routes.go
package levels

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /level subrouter. Admins may read; only the
// superadmin changes the curriculum.
func Routes(h *Handler, gate *authz.Gate) chi.Router {
	r := chi.NewRouter()
	gate.Mount(r, []authz.Route{
		{Method: http.MethodPost, Pattern: "/add", Roles: authz.SuperAdminOnly, Handler: h.Create},
		{Method: http.MethodGet, Pattern: "/", Roles: authz.Staff, Handler: h.List},
		{Method: http.MethodGet, Pattern: "/{id}", Roles: authz.Staff, Handler: h.Get},
		{Method: http.MethodPatch, Pattern: "/upd/{id}", Roles: authz.SuperAdminOnly, Handler: h.Update},
		{Method: http.MethodDelete, Pattern: "/del/{id}", Roles: authz.SuperAdminOnly, Handler: h.Delete},
	})
	return r
}
