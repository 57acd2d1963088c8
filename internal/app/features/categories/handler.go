// internal/app/features/categories/handler.go
package categories

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	categorystore "github.com/dalemusser/edutrack/internal/app/store/categories"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /category endpoints.
type Handler struct {
	Store   *categorystore.Store
	Refs    *refcheck.Checker
	Cascade *cascade.Engine
	ErrLog  *httperrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(ds docstore.Store, engine *cascade.Engine, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   categorystore.New(ds),
		Refs:    refcheck.New(ds),
		Cascade: engine,
		ErrLog:  errLog,
		Log:     logger,
	}
}
