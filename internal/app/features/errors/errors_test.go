package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorLogger_Write(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantLevel  zapcore.Level
	}{
		{"validation", apperr.Validation("invalid payload", "name is required"), http.StatusBadRequest, "invalid payload", zapcore.InfoLevel},
		{"not found", apperr.NotFound("level"), http.StatusBadRequest, "level not found", zapcore.InfoLevel},
		{"conflict", apperr.Conflict("a level with this name already exists"), http.StatusConflict, "a level with this name already exists", zapcore.InfoLevel},
		{"transaction", apperr.TransactionFailure(errors.New("socket closed")), http.StatusInternalServerError, "transaction aborted", zapcore.ErrorLevel},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "unexpected error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			el := httperrors.NewErrorLogger(zap.New(core))

			rec := httptest.NewRecorder()
			el.Write(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "test", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body httperrors.Body
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
			if logs.Len() != 1 || logs.All()[0].Level != tt.wantLevel {
				t.Errorf("log entries = %+v, want one at %v", logs.All(), tt.wantLevel)
			}
		})
	}
}

func TestErrorLogger_KeepsCauseOutOfBody(t *testing.T) {
	el := httperrors.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	el.Write(rec, httptest.NewRequest(http.MethodDelete, "/level/del/1", nil), "delete level",
		apperr.TransactionFailure(errors.New("mongo: connection pool cleared")))

	var body httperrors.Body
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Message != "transaction aborted" || len(body.Detail) != 0 {
		t.Errorf("body = %+v", body)
	}
}
