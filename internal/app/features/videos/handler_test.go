package videos_test

import (
	"net/http"
	"strings"
	"testing"

	httperrors "github.com/dalemusser/edutrack/internal/app/features/errors"
	"github.com/dalemusser/edutrack/internal/app/features/videos"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, ds docstore.Store) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	h := videos.NewHandler(ds, httperrors.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Mount("/video", videos.Routes(h, testutil.TestGate(t)))
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any, role string) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, method, path, body, role))
	return rec
}

func TestCreate(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	router := newRouter(t, ds)
	cat := fx.CreateCategory("Reading", fx.CreateLevel("Level 1").ID)

	rec := do(t, router, http.MethodPost, "/video/add", map[string]any{
		"url":         "https://videos.example.com/1",
		"category_id": cat.ID.Hex(),
		"description": `<p onclick="x()">Lesson</p>`,
	}, models.RoleSuperAdmin)
	rec.AssertStatus(t, http.StatusCreated)
	var created struct {
		Message string       `json:"message"`
		Video   models.Video `json:"video"`
	}
	rec.Decode(t, &created)
	v := created.Video
	if strings.Contains(v.Description, "onclick") {
		t.Errorf("description not sanitized: %q", v.Description)
	}

	rec = do(t, router, http.MethodPost, "/video/add", map[string]any{"url": "https://videos.example.com/2"}, models.RoleSuperAdmin)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "category_id is required")

	rec = do(t, router, http.MethodPost, "/video/add", map[string]any{
		"url": "https://videos.example.com/3", "category_id": primitive.NewObjectID().Hex(),
	}, models.RoleSuperAdmin)
	rec.AssertStatus(t, http.StatusBadRequest)

	if n := fx.Count(models.CollVideos, nil); n != 1 {
		t.Errorf("videos = %d, want 1", n)
	}
}

func TestListAndDelete(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	router := newRouter(t, ds)
	level := fx.CreateLevel("Level 1")
	a := fx.CreateCategory("Reading", level.ID)
	b := fx.CreateCategory("Writing", level.ID)
	v := fx.CreateVideo("https://v/1", a.ID)
	fx.CreateVideo("https://v/2", b.ID)

	rec := do(t, router, http.MethodGet, "/video/?category_id="+a.ID.Hex(), nil, models.RoleAdmin)
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Video
	rec.Decode(t, &list)
	if len(list) != 1 || list[0].ID != v.ID {
		t.Errorf("list = %+v", list)
	}

	do(t, router, http.MethodDelete, "/video/del/"+v.ID.Hex(), nil, models.RoleSuperAdmin).AssertStatus(t, http.StatusOK)
	do(t, router, http.MethodDelete, "/video/del/"+v.ID.Hex(), nil, models.RoleSuperAdmin).AssertStatus(t, http.StatusBadRequest)
}
