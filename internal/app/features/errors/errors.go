// internal/app/features/errors/errors.go
//
// Package errors writes classified failures as JSON and logs them.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/reqid"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body = apperr.Body

// ErrorLogger logs failures and writes the matching error response.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(log *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: log}
}

// Write reduces err to its apperr Kind, logs it (5xx at Error, 4xx at Info)
// and writes {"message", "detail"} with the Kind's status code. op names
// the failed operation in the log line.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := apperr.Status(err)
	body := apperr.BodyOf(err)

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", reqid.FromContext(r.Context())),
		zap.Int("status", status),
		zap.String("kind", apperr.KindOf(err).String()),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		e.log.Error("request failed", fields...)
	} else {
		e.log.Info("request rejected", fields...)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
