// internal/app/features/users/routes.go
package users

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, gate *authz.Gate) chi.Router {
	r := chi.NewRouter()
	gate.Mount(r, []authz.Route{
		// public
		{Method: http.MethodPost, Pattern: "/superadmin", Handler: h.RegisterSuperAdmin},
		{Method: http.MethodPost, Pattern: "/login-admin", Handler: h.Login},
		{Method: http.MethodPost, Pattern: "/refresh", Handler: h.RefreshToken},

		{Method: http.MethodPost, Pattern: "/reg-admin", Roles: authz.SuperAdminOnly, Handler: h.RegisterAdmin},
		{Method: http.MethodGet, Pattern: "/admins", Roles: authz.SuperAdminOnly, Handler: h.ListAdmins},
		{Method: http.MethodGet, Pattern: "/admin/{id}", Roles: authz.SuperAdminOnly, Handler: h.GetAdmin},
		{Method: http.MethodPatch, Pattern: "/upd-admin/{id}", Roles: authz.SuperAdminOnly, Handler: h.UpdateAdmin},
		{Method: http.MethodDelete, Pattern: "/del-admin/{id}", Roles: authz.SuperAdminOnly, Handler: h.DeleteAdmin},

		{Method: http.MethodPost, Pattern: "/add-student", Roles: authz.Staff, Handler: h.CreateStudent},
		{Method: http.MethodGet, Pattern: "/students", Roles: authz.Staff, Handler: h.ListStudents},
		{Method: http.MethodGet, Pattern: "/student/{id}", Roles: authz.Staff, Handler: h.GetStudent},
		{Method: http.MethodPatch, Pattern: "/upd-student/{id}", Roles: authz.Staff, Handler: h.UpdateStudent},
		{Method: http.MethodDelete, Pattern: "/del-student/{id}", Roles: authz.Staff, Handler: h.DeleteStudent},

		{Method: http.MethodPost, Pattern: "/add-parent", Roles: authz.Staff, Handler: h.CreateParent},
		{Method: http.MethodGet, Pattern: "/parents", Roles: authz.Staff, Handler: h.ListParents},
		{Method: http.MethodGet, Pattern: "/parent/{id}", Roles: authz.Staff, Handler: h.GetParent},
		{Method: http.MethodPatch, Pattern: "/upd-parent/{id}", Roles: authz.Staff, Handler: h.UpdateParent},
		{Method: http.MethodDelete, Pattern: "/del-parent/{id}", Roles: authz.Staff, Handler: h.DeleteParent},
	})
	return r
}
