// internal/app/features/activities/handler.go
package activities

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	activitystore "github.com/dalemusser/edutrack/internal/app/store/activities"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /activity endpoints.
type Handler struct {
	Store  *activitystore.Store
	Refs   *refcheck.Checker
	ErrLog *httperrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(ds docstore.Store, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  activitystore.New(ds),
		Refs:   refcheck.New(ds),
		ErrLog: errLog,
		Log:    logger,
	}
}
