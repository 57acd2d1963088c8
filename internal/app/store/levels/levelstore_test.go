package levelstore_test

import (
	"errors"
	"testing"

	levelstore "github.com/dalemusser/edutrack/internal/app/store/levels"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr(s string) *string { return &s }

func TestStore_CreateAndUpdate(t *testing.T) {
	store := levelstore.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	one, err := store.Create(ctx, models.Level{Name: "Level 1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Level{Name: "LEVEL 1"}); !errors.Is(err, levelstore.ErrDuplicateLevel) {
		t.Errorf("duplicate create: got %v", err)
	}
	two, err := store.Create(ctx, models.Level{Name: "Level 2"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Renaming to its own name in another case is allowed.
	if _, err := store.Update(ctx, one.ID, levelstore.Patch{Name: ptr("level 1")}); err != nil {
		t.Errorf("self rename failed: %v", err)
	}
	if _, err := store.Update(ctx, two.ID, levelstore.Patch{Name: ptr("Level 1")}); !errors.Is(err, levelstore.ErrDuplicateLevel) {
		t.Errorf("rename onto other: got %v", err)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), levelstore.Patch{Name: ptr("Level 9")}); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("missing id: got %v", err)
	}

	got, err := store.GetByID(ctx, one.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "level 1" {
		t.Errorf("Name = %q, want %q", got.Name, "level 1")
	}
}
