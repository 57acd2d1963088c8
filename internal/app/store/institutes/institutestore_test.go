package institutestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	institutestore "github.com/dalemusser/edutrack/internal/app/store/institutes"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/edutrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	store := institutestore.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Institute{Name: "  sunrise academy ", SubscriptionType: "free"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "SUNRISE ACADEMY" {
		t.Errorf("Name = %q, want upper-cased", created.Name)
	}
	if created.SubscriptionType != models.SubscriptionFree {
		t.Errorf("SubscriptionType = %q", created.SubscriptionType)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.NameCI != created.NameCI {
		t.Errorf("stored NameCI = %q, want %q", got.NameCI, created.NameCI)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	store := institutestore.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Institute{Name: "Sunrise", SubscriptionType: "FREE"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Institute{Name: "SUNRISE", SubscriptionType: "FREE"})
	if !errors.Is(err, institutestore.ErrDuplicateInstitute) {
		t.Errorf("got %v, want ErrDuplicateInstitute", err)
	}
	list, _ := store.List(ctx, nil)
	if len(list) != 1 {
		t.Errorf("List returned %d institutes, want 1", len(list))
	}
}

func TestStore_Update(t *testing.T) {
	store := institutestore.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, _ := store.Create(ctx, models.Institute{Name: "Alpha", SubscriptionType: "FREE"})
	if _, err := store.Create(ctx, models.Institute{Name: "Beta", SubscriptionType: "FREE"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	expiry := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	paid := "paid"
	same := "alpha"
	updated, err := store.Update(ctx, a.ID, institutestore.Patch{
		Name:               &same,
		SubscriptionType:   &paid,
		SubscriptionExpiry: &expiry,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.SubscriptionType != models.SubscriptionPaid {
		t.Errorf("SubscriptionType = %q", updated.SubscriptionType)
	}
	if updated.SubscriptionExpiry == nil || !updated.SubscriptionExpiry.Equal(expiry) {
		t.Errorf("SubscriptionExpiry = %v", updated.SubscriptionExpiry)
	}

	taken := "beta"
	if _, err := store.Update(ctx, a.ID, institutestore.Patch{Name: &taken}); !errors.Is(err, institutestore.ErrDuplicateInstitute) {
		t.Errorf("rename onto another institute: got %v", err)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), institutestore.Patch{Name: &paid}); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestStore_ExistsAndDelete(t *testing.T) {
	store := institutestore.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst, _ := store.Create(ctx, models.Institute{Name: "Gamma", SubscriptionType: "FREE"})
	if ok, err := store.Exists(ctx, inst.ID); err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if _, err := store.FindOne(ctx, docstore.Filter{"name_ci": inst.NameCI}); err != nil {
		t.Errorf("FindOne failed: %v", err)
	}

	// Institutes leave only through the cascade engine.
	if _, ok := any(store).(interface {
		Delete(context.Context, primitive.ObjectID) (bool, error)
	}); ok {
		t.Error("institute store exposes a single-document Delete")
	}
}
