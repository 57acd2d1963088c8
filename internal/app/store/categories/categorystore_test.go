package categorystore_test

import (
	"errors"
	"testing"

	categorystore "github.com/dalemusser/edutrack/internal/app/store/categories"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
)

func TestStore_CreateUpdate(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	store := categorystore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	l1 := fx.CreateLevel("Level 1")
	l2 := fx.CreateLevel("Level 2")

	c, err := store.Create(ctx, models.Category{Name: "Reading", Thumbnail: " https://cdn/r.png ", LevelID: l1.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Thumbnail != "https://cdn/r.png" {
		t.Errorf("Thumbnail = %q", c.Thumbnail)
	}
	if _, err := store.Create(ctx, models.Category{Name: "reading", LevelID: l1.ID}); !errors.Is(err, categorystore.ErrDuplicateCategory) {
		t.Errorf("duplicate in level: got %v", err)
	}
	other, err := store.Create(ctx, models.Category{Name: "Reading", LevelID: l2.ID})
	if err != nil {
		t.Fatalf("same name in other level: %v", err)
	}

	if _, err := store.Update(ctx, other.ID, categorystore.Patch{LevelID: &l1.ID}); !errors.Is(err, categorystore.ErrDuplicateCategory) {
		t.Errorf("move onto duplicate: got %v", err)
	}
	thumb := "https://cdn/new.png"
	updated, err := store.Update(ctx, c.ID, categorystore.Patch{Thumbnail: &thumb})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Thumbnail != thumb || updated.Name != "Reading" {
		t.Errorf("post-update category = %+v", updated)
	}

	byLevel, err := store.List(ctx, docstore.Filter{"level_id": l1.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byLevel) != 1 {
		t.Errorf("List(level 1) = %d categories, want 1", len(byLevel))
	}
}
