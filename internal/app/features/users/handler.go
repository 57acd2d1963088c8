// internal/app/features/users/handler.go
package users

import (
	"errors"

	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	userstore "github.com/dalemusser/edutrack/internal/app/store/users"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/ratelimit"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /user endpoints: signup and login for staff, plus
// CRUD for admins, students, and parents.
type Handler struct {
	Store   *userstore.Store
	Refs    *refcheck.Checker
	Cascade *cascade.Engine
	Tokens  *auth.Tokens
	Refresh *auth.RefreshStore
	Guard   *ratelimit.LoginGuard
	ErrLog  *httperrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(ds docstore.Store, engine *cascade.Engine, tokens *auth.Tokens, refresh *auth.RefreshStore,
	errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   userstore.New(ds),
		Refs:    refcheck.New(ds),
		Cascade: engine,
		Tokens:  tokens,
		Refresh: refresh,
		Guard:   ratelimit.NewLoginGuard(),
		ErrLog:  errLog,
		Log:     logger,
	}
}

// invalid are store sentinels that describe a bad payload rather than a
// clash with existing data.
var invalid = []error{
	userstore.ErrBadRole,
	userstore.ErrCredentialsNeeded,
	userstore.ErrMobileNeeded,
	userstore.ErrStudentRefs,
	userstore.ErrPointsNotAllowed,
}

func storeErr(err error, what string) error {
	for _, s := range invalid {
		if errors.Is(err, s) {
			return apperr.Validation("invalid payload", s.Error())
		}
	}
	return respond.StoreError(err, what,
		userstore.ErrSuperAdminExists,
		userstore.ErrDuplicateEmail,
		userstore.ErrDuplicateMobile,
	)
}
