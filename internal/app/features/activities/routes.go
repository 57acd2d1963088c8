// internal/app/features/activities/routes.go
package activities

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

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
