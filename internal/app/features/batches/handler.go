// internal/app/features/batches/handler.go
package batches

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	batchstore "github.com/dalemusser/edutrack/internal/app/store/batches"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /batch endpoints.
type Handler struct {
	Store   *batchstore.Store
	Refs    *refcheck.Checker
	Cascade *cascade.Engine
	ErrLog  *httperrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(ds docstore.Store, engine *cascade.Engine, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   batchstore.New(ds),
		Refs:    refcheck.New(ds),
		Cascade: engine,
		ErrLog:  errLog,
		Log:     logger,
	}
}
