package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/auth"
	"github.com/dalemusser/edutrack/internal/app/system/authz"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.uber.org/zap"
)

// TestJWTSecret signs every token issued by TestTokens.
const TestJWTSecret = "edutrack-test-jwt-secret-0123456789"

// TestTokens returns a token issuer with the production lifetimes.
func TestTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tok, err := auth.NewTokens(TestJWTSecret, 6*time.Hour, 720*time.Hour)
	if err != nil {
		t.Fatalf("NewTokens failed: %v", err)
	}
	return tok
}

// TestGate returns a Gate that accepts tokens from TestTokens.
func TestGate(t *testing.T) *authz.Gate {
	t.Helper()
	return authz.NewGate(TestTokens(t), zap.NewNop())
}

// BearerFor returns an Authorization header value for a fresh user of role.
func BearerFor(t *testing.T, role string) string {
	t.Helper()
	s, err := TestTokens(t).Issue(models.NewUserID(role), role)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return "Bearer " + s
}

// NewRequest creates a request with an optional JSON body.
// body may be nil, a string, or any value to be JSON-encoded.
func NewRequest(method, target string, body any) *http.Request {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewAuthenticatedRequest is NewRequest with a bearer token for role.
func NewAuthenticatedRequest(t *testing.T, method, target string, body any, role string) *http.Request {
	t.Helper()
	req := NewRequest(method, target, body)
	req.Header.Set("Authorization", BearerFor(t, role))
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with assertion helpers.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks that the response has the expected status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("expected status %d, got %d (body: %s)", expected, r.Code, r.Body.String())
	}
}

// AssertContains checks that the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("expected body to contain %q, got %q", expected, r.Body.String())
	}
}

// Decode unmarshals the JSON body into out.
func (r *ResponseRecorder) Decode(t *testing.T, out any) {
	t.Helper()
	if err := json.Unmarshal(r.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response body failed: %v (body: %s)", err, r.Body.String())
	}
}
