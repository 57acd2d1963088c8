// internal/app/features/branches/handler.go
package branches

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	branchstore "github.com/dalemusser/edutrack/internal/app/store/branches"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /branch endpoints.
type Handler struct {
	Store   *branchstore.Store
	Refs    *refcheck.Checker
	Cascade *cascade.Engine
	ErrLog  *httperrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(ds docstore.Store, engine *cascade.Engine, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   branchstore.New(ds),
		Refs:    refcheck.New(ds),
		Cascade: engine,
		ErrLog:  errLog,
		Log:     logger,
	}
}
