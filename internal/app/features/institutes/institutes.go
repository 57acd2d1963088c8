// internal/app/features/institutes/institutes.go
package institutes

import (
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	institutestore "github.com/dalemusser/edutrack/internal/app/store/institutes"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/inputval"
	"github.com/dalemusser/edutrack/internal/app/system/normalize"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"github.com/dalemusser/edutrack/internal/app/system/timeouts"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

func storeErr(err error) error {
	return respond.StoreError(err, "institute", institutestore.ErrDuplicateInstitute)
}

// instituteBody wraps a written institute with a confirmation message.
type instituteBody struct {
	Message   string           `json:"message"`
	Institute models.Institute `json:"institute"`
}

// Create handles POST /institute/add.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "create institute", err)
		return
	}
	in.SubscriptionType = normalize.Role(in.SubscriptionType)
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "create institute", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create institute")
	defer cancel()

	privs := toPrivileges(in.ActivityPrivileges)
	if err := h.Refs.Check(ctx, refcheck.Privileges(privs)...); err != nil {
		h.ErrLog.Write(w, r, "create institute", err)
		return
	}

	inst, err := h.Store.Create(ctx, models.Institute{
		Name:               in.Name,
		SubscriptionType:   in.SubscriptionType,
		SubscriptionExpiry: in.SubscriptionExpiry,
		ActivityPrivileges: privs,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "create institute", storeErr(err))
		return
	}
	h.Log.Info("institute created", zap.String("institute_id", inst.ID.Hex()))
	respond.JSON(w, http.StatusCreated, instituteBody{Message: "institute created", Institute: inst})
}

// List handles GET /institute/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list institutes")
	defer cancel()

	list, err := h.Store.List(ctx, nil)
	if err != nil {
		h.ErrLog.Write(w, r, "list institutes", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// Get handles GET /institute/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "get institute", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get institute")
	defer cancel()

	inst, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "get institute", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, inst)
}

// Update handles PATCH /institute/upd/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "update institute", err)
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, "update institute", err)
		return
	}
	if in.SubscriptionType != nil {
		st := normalize.Role(*in.SubscriptionType)
		in.SubscriptionType = &st
	}
	if err := inputval.RequireAny(in); err != nil {
		h.ErrLog.Write(w, r, "update institute", err)
		return
	}
	if err := inputval.Check(in); err != nil {
		h.ErrLog.Write(w, r, "update institute", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update institute")
	defer cancel()

	cur, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Write(w, r, "update institute", storeErr(err))
		return
	}
	// Switching to PAID needs an expiry, either in the patch or already stored.
	if in.SubscriptionType != nil && *in.SubscriptionType == models.SubscriptionPaid &&
		in.SubscriptionExpiry == nil && cur.SubscriptionExpiry == nil {
		h.ErrLog.Write(w, r, "update institute",
			apperr.Validation("invalid payload", "subscription_expiry is required when subscription_type is PAID"))
		return
	}

	p := institutestore.Patch{
		Name:               in.Name,
		SubscriptionType:   in.SubscriptionType,
		SubscriptionExpiry: in.SubscriptionExpiry,
	}
	if in.ActivityPrivileges != nil {
		privs := toPrivileges(*in.ActivityPrivileges)
		if err := h.Refs.Check(ctx, refcheck.Privileges(privs)...); err != nil {
			h.ErrLog.Write(w, r, "update institute", err)
			return
		}
		p.ActivityPrivileges = &privs
	}

	inst, err := h.Store.Update(ctx, id, p)
	if err != nil {
		h.ErrLog.Write(w, r, "update institute", storeErr(err))
		return
	}
	respond.JSON(w, http.StatusOK, instituteBody{Message: "institute updated", Institute: inst})
}

// Delete handles DELETE /institute/del/{id}. Branches, batches, and every
// user tied to the institute go with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ObjectID(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "delete institute", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete institute")
	defer cancel()

	rep, err := h.Cascade.Delete(ctx, cascade.Institute, id)
	if err != nil {
		h.ErrLog.Write(w, r, "delete institute", err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Deleted("institute deleted", rep.Deleted))
}
