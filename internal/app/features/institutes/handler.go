// internal/app/features/institutes/handler.go
package institutes

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	institutestore "github.com/dalemusser/edutrack/internal/app/store/institutes"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /institute endpoints.
type Handler struct {
	Store   *institutestore.Store
	Refs    *refcheck.Checker
	Cascade *cascade.Engine
	ErrLog  *httperrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs an institutes Handler.
func NewHandler(ds docstore.Store, engine *cascade.Engine, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   institutestore.New(ds),
		Refs:    refcheck.New(ds),
		Cascade: engine,
		ErrLog:  errLog,
		Log:     logger,
	}
}
