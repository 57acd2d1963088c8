// internal/app/features/videos/handler.go
package videos

import (
	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	videostore "github.com/dalemusser/edutrack/internal/app/store/videos"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/refcheck"
	"go.uber.org/zap"
)

// Handler serves the /video endpoints.
type Handler struct {
	Store  *videostore.Store
	Refs   *refcheck.Checker
	ErrLog *httperrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(ds docstore.Store, errLog *httperrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  videostore.New(ds),
		Refs:   refcheck.New(ds),
		ErrLog: errLog,
		Log:    logger,
	}
}
