package batchstore_test

import (
	"errors"
	"testing"

	batchstore "github.com/dalemusser/edutrack/internal/app/store/batches"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateScopedUniqueness(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	store := batchstore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fx.CreateInstitute("Alpha")
	br := fx.CreateBranch("North", inst.ID)
	l1 := fx.CreateLevel("Level 1")
	l2 := fx.CreateLevel("Level 2")

	first, err := store.Create(ctx, models.Batch{Name: "Morning", LevelID: &l1.ID, BranchID: &br.ID, InstituteID: &inst.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.LevelID == nil || *first.LevelID != l1.ID {
		t.Errorf("LevelID = %v, want %v", first.LevelID, l1.ID)
	}

	tests := []struct {
		name    string
		batch   models.Batch
		wantDup bool
	}{
		{"same level and institute", models.Batch{Name: "morning", LevelID: &l1.ID, InstituteID: &inst.ID}, true},
		{"other level", models.Batch{Name: "Morning", LevelID: &l2.ID, InstituteID: &inst.ID}, false},
		{"no references", models.Batch{Name: "Morning"}, false},
		{"no references again", models.Batch{Name: "MORNING"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Create(ctx, tt.batch)
			if tt.wantDup && !errors.Is(err, batchstore.ErrDuplicateBatch) {
				t.Errorf("got %v, want ErrDuplicateBatch", err)
			}
			if !tt.wantDup && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	store := batchstore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fx.CreateInstitute("Alpha")
	l1 := fx.CreateLevel("Level 1")
	l2 := fx.CreateLevel("Level 2")
	a := fx.CreateBatch("A", l1.ID, primitive.NilObjectID, inst.ID)
	fx.CreateBatch("A", l2.ID, primitive.NilObjectID, inst.ID)

	// Moving A to level 2 collides with the batch already named A there.
	if _, err := store.Update(ctx, a.ID, batchstore.Patch{LevelID: &l2.ID}); !errors.Is(err, batchstore.ErrDuplicateBatch) {
		t.Errorf("got %v, want ErrDuplicateBatch", err)
	}

	name := "B"
	updated, err := store.Update(ctx, a.ID, batchstore.Patch{Name: &name, LevelID: &l2.ID})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "B" || updated.LevelID == nil || *updated.LevelID != l2.ID {
		t.Errorf("post-update batch = %+v", updated)
	}
}
