package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly, bypassing the stores' checks.
type Fixtures struct {
	ds docstore.Store
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given store.
func NewFixtures(t *testing.T, ds docstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{ds: ds, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() docstore.Store {
	return f.ds
}

func (f *Fixtures) insert(coll string, doc any) {
	f.t.Helper()
	if err := f.ds.Insert(context.Background(), coll, doc); err != nil {
		f.t.Fatalf("failed to insert %s fixture: %v", coll, err)
	}
}

// Count returns the number of documents in coll matching filter.
func (f *Fixtures) Count(coll string, filter docstore.Filter) int64 {
	f.t.Helper()
	n, err := f.ds.Count(context.Background(), coll, filter)
	if err != nil {
		f.t.Fatalf("count %s failed: %v", coll, err)
	}
	return n
}

// Exists reports whether a document with key exists in coll.
func (f *Fixtures) Exists(coll string, key any) bool {
	f.t.Helper()
	return f.Count(coll, docstore.Filter{"_id": key}) > 0
}

func ptr[T any](v T) *T { return &v }

// CreateInstitute creates a FREE institute with the given name.
func (f *Fixtures) CreateInstitute(name string) models.Institute {
	f.t.Helper()
	now := time.Now().UTC()
	inst := models.Institute{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           text.Fold(name),
		SubscriptionType: models.SubscriptionFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.insert(models.CollInstitutes, inst)
	return inst
}

// CreateBranch creates a branch of instituteID.
func (f *Fixtures) CreateBranch(name string, instituteID primitive.ObjectID) models.Branch {
	f.t.Helper()
	now := time.Now().UTC()
	b := models.Branch{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		InstituteID: instituteID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(models.CollBranches, b)
	return b
}

// CreateLevel creates a level.
func (f *Fixtures) CreateLevel(name string) models.Level {
	f.t.Helper()
	now := time.Now().UTC()
	l := models.Level{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(models.CollLevels, l)
	return l
}

// CreateBatch creates a batch. Zero ids leave the reference unset.
func (f *Fixtures) CreateBatch(name string, levelID, branchID, instituteID primitive.ObjectID) models.Batch {
	f.t.Helper()
	now := time.Now().UTC()
	b := models.Batch{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !levelID.IsZero() {
		b.LevelID = ptr(levelID)
	}
	if !branchID.IsZero() {
		b.BranchID = ptr(branchID)
	}
	if !instituteID.IsZero() {
		b.InstituteID = ptr(instituteID)
	}
	f.insert(models.CollBatches, b)
	return b
}

// CreateCategory creates a category under levelID.
func (f *Fixtures) CreateCategory(name string, levelID primitive.ObjectID) models.Category {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Thumbnail: "https://cdn.example.com/" + name + ".png",
		LevelID:   levelID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(models.CollCategories, c)
	return c
}

// CreateActivity creates an activity under categoryID.
func (f *Fixtures) CreateActivity(name string, categoryID primitive.ObjectID) models.Activity {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Activity{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		CategoryID: categoryID,
		Thumbnail:  "https://cdn.example.com/" + name + ".png",
		Point:      10,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(models.CollActivities, a)
	return a
}

// CreateVideo creates a video under categoryID.
func (f *Fixtures) CreateVideo(url string, categoryID primitive.ObjectID) models.Video {
	f.t.Helper()
	now := time.Now().UTC()
	v := models.Video{
		ID:         primitive.NewObjectID(),
		URL:        url,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(models.CollVideos, v)
	return v
}

func (f *Fixtures) createUser(u models.User) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u.ID = models.NewUserID(u.Role)
	u.CreatedAt, u.UpdatedAt = now, now
	f.insert(models.CollUsers, u)
	return u
}

// CreateSuperAdmin creates the superadmin with a bcrypt hash of password.
// passwordHash may be empty when the test does not log in.
func (f *Fixtures) CreateSuperAdmin(name, email, passwordHash string) models.User {
	f.t.Helper()
	return f.createUser(models.User{
		Name:     name,
		Email:    ptr(email),
		EmailCI:  ptr(text.Fold(email)),
		Password: passwordHash,
		Role:     models.RoleSuperAdmin,
	})
}

// CreateAdmin creates an admin.
func (f *Fixtures) CreateAdmin(name, email, passwordHash string) models.User {
	f.t.Helper()
	return f.createUser(models.User{
		Name:     name,
		Email:    ptr(email),
		EmailCI:  ptr(text.Fold(email)),
		Password: passwordHash,
		Role:     models.RoleAdmin,
	})
}

// CreateParent creates a parent with the given mobile number.
func (f *Fixtures) CreateParent(name, mobile string) models.User {
	f.t.Helper()
	return f.createUser(models.User{
		Name:   name,
		Mobile: ptr(mobile),
		Role:   models.RoleParent,
	})
}

// CreateStudent creates a student. Zero ids and an empty parentID leave the
// reference unset.
func (f *Fixtures) CreateStudent(name, parentID string, batchID, branchID, instituteID primitive.ObjectID) models.User {
	f.t.Helper()
	u := models.User{Name: name, Role: models.RoleStudent}
	if parentID != "" {
		u.ParentID = ptr(parentID)
	}
	if !batchID.IsZero() {
		u.BatchID = ptr(batchID)
	}
	if !branchID.IsZero() {
		u.BranchID = ptr(branchID)
	}
	if !instituteID.IsZero() {
		u.InstituteID = ptr(instituteID)
	}
	return f.createUser(u)
}
