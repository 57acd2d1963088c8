package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/edutrack/internal/app/system/reqid"
	"github.com/google/uuid"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
		keep    bool
	}{
		{"none sent", "", false},
		{"well formed", "abc-123_x.y", true},
		{"bad characters", "abc\r\nSet-Cookie: x", false},
		{"too long", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := reqid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = reqid.FromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set(reqid.Header, tt.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(reqid.Header)
			if got != seen {
				t.Errorf("header %q != context %q", got, seen)
			}
			if tt.keep {
				if got != tt.inbound {
					t.Errorf("id = %q, want %q", got, tt.inbound)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("id %q is not a uuid: %v", got, err)
			}
		})
	}
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := reqid.FromContext(req.Context()); id != "" {
		t.Errorf("FromContext = %q, want empty", id)
	}
}
