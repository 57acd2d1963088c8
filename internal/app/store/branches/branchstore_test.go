package branchstore_test

import (
	"errors"
	"testing"

	branchstore "github.com/dalemusser/edutrack/internal/app/store/branches"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateUniqueWithinInstitute(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	store := branchstore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	instA := fx.CreateInstitute("Alpha")
	instB := fx.CreateInstitute("Beta")

	created, err := store.Create(ctx, models.Branch{Name: " North   Campus ", InstituteID: instA.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Name != "North Campus" {
		t.Errorf("Name = %q, want whitespace collapsed", created.Name)
	}

	if _, err := store.Create(ctx, models.Branch{Name: "north campus", InstituteID: instA.ID}); !errors.Is(err, branchstore.ErrDuplicateBranch) {
		t.Errorf("same institute: got %v, want ErrDuplicateBranch", err)
	}
	if _, err := store.Create(ctx, models.Branch{Name: "North Campus", InstituteID: instB.ID}); err != nil {
		t.Errorf("other institute should accept the name: %v", err)
	}

	list, err := store.List(ctx, docstore.Filter{"institute_id": instA.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List returned %d branches for institute A, want 1", len(list))
	}
}

func TestStore_Update(t *testing.T) {
	ds := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, ds)
	store := branchstore.New(ds)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	instA := fx.CreateInstitute("Alpha")
	instB := fx.CreateInstitute("Beta")
	north := fx.CreateBranch("North", instA.ID)
	fx.CreateBranch("South", instB.ID)

	moved, err := store.Update(ctx, north.ID, branchstore.Patch{InstituteID: &instB.ID})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if moved.InstituteID != instB.ID {
		t.Errorf("InstituteID = %v, want %v", moved.InstituteID, instB.ID)
	}

	south := "south"
	if _, err := store.Update(ctx, north.ID, branchstore.Patch{Name: &south}); !errors.Is(err, branchstore.ErrDuplicateBranch) {
		t.Errorf("rename onto sibling: got %v, want ErrDuplicateBranch", err)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), branchstore.Patch{Name: &south}); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}
