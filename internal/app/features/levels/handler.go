// internal/app/features/levels/handler.go
package levels

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	levelstore "github.com/dalemusser/edutrack/internal/app/store/levels"
	"github.com/dalemusser/edutrack/internal/app/system/cascade"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"go.uber.org/zap"
)

// Handler serves the /level endpoints.
type Handler struct {
	Store   *levelstore.Store
	Cascade *cascade.Engine
	ErrLog  *httperrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(ds docstore.Store, engine *cascade.Engine, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   levelstore.New(ds),
		Cascade: engine,
		ErrLog:  errLog,
		Log:     logger,
	}
}
