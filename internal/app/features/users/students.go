// internal/app/features/users/students.go
package users

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	userstore "github.com/dalemusser/edutrack/internal/app/store/users"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/normalize"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

// CreateStudent handles POST /user/add-student.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var in studentInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create student", err)
		return
	}
	in.Role = normalize.Role(in.Role)
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create student", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create student")
	defer cancel()

	u := models.User{
		Name:        in.Name,
		Role:        models.RoleStudent,
		ParentID:    strPtr(in.ParentID),
		BatchID:     respond.OptionalID(&in.BatchID),
		BranchID:    respond.OptionalID(&in.BranchID),
		InstituteID: respond.OptionalID(&in.InstituteID),
		Points:      toPoints(in.Points),
	}
	refs := append([]refcheck.Ref{
		refcheck.ToParent("parent_id", u.ParentID),
		refcheck.To("batch_id", models.CollBatches, u.BatchID),
		refcheck.To("branch_id", models.CollBranches, u.BranchID),
		refcheck.To("institute_id", models.CollInstitutes, u.InstituteID),
	}, refcheck.Points(u.Points)...)
	if err := h.Refs.Check(ctx, refs...); err != nil {
		h.ErrLog.Write(w, r, "create student", err)
		return
	}

	created, err := h.Store.Create(ctx, u)
	if err != nil {
		h.ErrLog.Write(w, r, "create student", storeErr(err, "student"))
		return
	}
	h.Log.Info("student created", zap.String("user_id", created.ID), zap.String("parent_id", in.ParentID))
	respond.JSON(w, http.StatusCreated, userBody{Message: "student created", User: created})
}

// ListStudents handles GET /user/students.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RoleStudent, "list students")
}

// GetStudent handles GET /user/student/{id}.
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, models.RoleStudent, "student")
}

// UpdateStudent handles PATCH /user/upd-student/{id}. Points, when given,
// replace the stored points wholesale.
func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	var in studentPatch
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}

	p := userstore.Patch{
		Name:        in.Name,
		ParentID:    in.ParentID,
		BatchID:     respond.OptionalID(in.BatchID),
		BranchID:    respond.OptionalID(in.BranchID),
		InstituteID: respond.OptionalID(in.InstituteID),
	}
	refs := []refcheck.Ref{
		refcheck.ToParent("parent_id", p.ParentID),
		refcheck.To("batch_id", models.CollBatches, p.BatchID),
		refcheck.To("branch_id", models.CollBranches, p.BranchID),
		refcheck.To("institute_id", models.CollInstitutes, p.InstituteID),
	}
	if in.Points != nil {
		pts := toPoints(*in.Points)
		p.Points = &pts
		refs = append(refs, refcheck.Points(pts)...)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update student")
	defer cancel()

	if err := h.Refs.Check(ctx, refs...); err != nil {
		h.ErrLog.Write(w, r, "update student", err)
		return
	}
	u, err := h.Store.Update(ctx, models.RoleStudent, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update student", storeErr(err, "student"))
		return
	}
	respond.JSON(w, http.StatusOK, userBody{Message: "student updated", User: u})
}

// DeleteStudent handles DELETE /user/del-student/{id}. Nothing references
// a student, so no cascade is needed.
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	h.deleteOne(w, r, models.RoleStudent, "student")
}
