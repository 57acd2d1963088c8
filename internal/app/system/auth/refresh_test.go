package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestRefreshStore(t *testing.T, key string) *auth.RefreshStore {
	t.Helper()
	rs, err := auth.NewRefreshStore(key, "test-refresh", "", false, 720*time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRefreshStore failed: %v", err)
	}
	return rs
}

func TestRefreshStore_SaveAndRead(t *testing.T) {
	rs := newTestRefreshStore(t, "test-session-key-must-be-32-chars-long")

	rec := httptest.NewRecorder()
	if err := rs.Save(rec, httptest.NewRequest(http.MethodPost, "/user/login-admin", nil), "refresh-abc"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if !cookies[0].HttpOnly {
		t.Error("expected HttpOnly cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/user/refresh", nil)
	req.AddCookie(cookies[0])
	got, err := rs.Token(req)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if got != "refresh-abc" {
		t.Errorf("Token = %q, want refresh-abc", got)
	}
}

func TestRefreshStore_Missing(t *testing.T) {
	rs := newTestRefreshStore(t, "test-session-key-must-be-32-chars-long")
	_, err := rs.Token(httptest.NewRequest(http.MethodPost, "/user/refresh", nil))
	if !errors.Is(err, auth.ErrNoRefresh) {
		t.Errorf("got %v, want ErrNoRefresh", err)
	}
}

func TestRefreshStore_ForeignKeyIsInvalid(t *testing.T) {
	signer := newTestRefreshStore(t, "first-session-key-must-be-32-chars-long")
	reader := newTestRefreshStore(t, "other-session-key-must-be-32-chars-long")

	rec := httptest.NewRecorder()
	if err := signer.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), "refresh-abc"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/user/refresh", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	if _, err := reader.Token(req); !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestGenerateKey(t *testing.T) {
	k := auth.GenerateKey()
	if len(k) != 64 {
		t.Errorf("len(GenerateKey()) = %d, want 64", len(k))
	}
}
