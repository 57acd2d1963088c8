package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type doc struct {
	ID       primitive.ObjectID  `bson:"_id"`
	Name     string              `bson:"name"`
	ParentID *primitive.ObjectID `bson:"parent_id,omitempty"`
	Point    int                 `bson:"point"`
}

func seed(t *testing.T, s *docstore.MemStore, docs ...doc) {
	t.Helper()
	for _, d := range docs {
		if err := s.Insert(context.Background(), "things", d); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
}

func TestMemStore_InsertGet(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	d := doc{ID: primitive.NewObjectID(), Name: "alpha", Point: 3}
	seed(t, s, d)

	got, err := docstore.GetAs[doc](ctx, s, "things", d.ID)
	if err != nil {
		t.Fatalf("GetAs failed: %v", err)
	}
	if got.Name != "alpha" || got.Point != 3 {
		t.Errorf("got %+v, want %+v", got, d)
	}

	if err := s.Insert(ctx, "things", d); !errors.Is(err, docstore.ErrDuplicate) {
		t.Errorf("second Insert: got %v, want ErrDuplicate", err)
	}

	_, err = docstore.GetAs[doc](ctx, s, "things", primitive.NewObjectID())
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("missing key: got %v, want ErrNotFound", err)
	}
}

func TestMemStore_FilterMatching(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	p1, p2, p3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	seed(t, s,
		doc{ID: primitive.NewObjectID(), Name: "a", ParentID: &p1},
		doc{ID: primitive.NewObjectID(), Name: "b", ParentID: &p2},
		doc{ID: primitive.NewObjectID(), Name: "c", ParentID: &p2},
		doc{ID: primitive.NewObjectID(), Name: "d"},
	)

	tests := []struct {
		name   string
		filter docstore.Filter
		want   int64
	}{
		{"all", nil, 4},
		{"equality on value", docstore.Filter{"parent_id": p2}, 2},
		{"equality on pointer", docstore.Filter{"parent_id": &p1}, 1},
		{"membership", docstore.Filter{"parent_id": docstore.In{p1, p2}}, 3},
		{"empty membership", docstore.Filter{"parent_id": docstore.In{}}, 0},
		{"no match", docstore.Filter{"parent_id": p3}, 0},
		{"conjunction", docstore.Filter{"parent_id": p2, "name": "c"}, 1},
		{"nil matches missing", docstore.Filter{"parent_id": nil}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.Count(ctx, "things", tt.filter)
			if err != nil {
				t.Fatalf("Count failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("Count = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestMemStore_FindKeepsInsertionOrder(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		seed(t, s, doc{ID: primitive.NewObjectID(), Name: name})
	}

	got, err := docstore.FindAs[doc](ctx, s, "things", nil)
	if err != nil {
		t.Fatalf("FindAs failed: %v", err)
	}
	if len(got) != 3 || got[0].Name != "first" || got[2].Name != "third" {
		t.Errorf("unexpected order: %+v", got)
	}

	empty, err := docstore.FindAs[doc](ctx, s, "nothing", nil)
	if err != nil {
		t.Fatalf("FindAs failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestMemStore_Update(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	d := doc{ID: primitive.NewObjectID(), Name: "old", Point: 1}
	seed(t, s, d)

	var out doc
	if err := s.Update(ctx, "things", d.ID, docstore.Set{"name": "new"}, &out); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if out.Name != "new" || out.Point != 1 {
		t.Errorf("post-update doc = %+v", out)
	}

	err := s.Update(ctx, "things", primitive.NewObjectID(), docstore.Set{"name": "x"}, nil)
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemStore_DeleteMany(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	a, b, c := doc{ID: primitive.NewObjectID()}, doc{ID: primitive.NewObjectID()}, doc{ID: primitive.NewObjectID()}
	seed(t, s, a, b, c)

	n, err := s.DeleteMany(ctx, "things", []any{a.ID, c.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	keys, _ := s.Keys(ctx, "things", nil)
	if len(keys) != 1 || keys[0] != b.ID {
		t.Errorf("remaining keys = %v, want [%v]", keys, b.ID)
	}
}

func TestMemStore_TransactionCommit(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	d := doc{ID: primitive.NewObjectID(), Name: "x"}

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Insert(ctx, "things", d); err != nil {
			return err
		}
		// Reads inside the transaction see its own writes.
		ok, err := docstore.Exists(ctx, s, "things", d.ID)
		if err != nil {
			return err
		}
		if !ok {
			t.Error("insert not visible inside transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTransaction failed: %v", err)
	}
	if ok, _ := docstore.Exists(ctx, s, "things", d.ID); !ok {
		t.Error("insert not visible after commit")
	}
}

func TestMemStore_TransactionRollback(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	keep := doc{ID: primitive.NewObjectID(), Name: "keep"}
	seed(t, s, keep)

	boom := errors.New("boom")
	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Delete(ctx, "things", keep.ID); err != nil {
			return err
		}
		if err := s.Insert(ctx, "things", doc{ID: primitive.NewObjectID()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	keys, _ := s.Keys(ctx, "things", nil)
	if len(keys) != 1 || keys[0] != keep.ID {
		t.Errorf("state after rollback = %v, want only %v", keys, keep.ID)
	}
}

func TestMemStore_NestedTransactionJoins(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	boom := errors.New("outer failure")

	err := s.WithTransaction(ctx, func(ctx context.Context) error {
		inner := s.WithTransaction(ctx, func(ctx context.Context) error {
			return s.Insert(ctx, "things", doc{ID: primitive.NewObjectID()})
		})
		if inner != nil {
			return inner
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want outer failure", err)
	}
	if n, _ := s.Count(ctx, "things", nil); n != 0 {
		t.Errorf("inner insert survived outer abort: count = %d", n)
	}
}

func TestMemStore_FaultInjection(t *testing.T) {
	s := docstore.NewMemStore()
	ctx := context.Background()
	injected := errors.New("injected")
	s.SetFault(docstore.FailOn(docstore.OpInsert, "things", injected))

	if err := s.Insert(ctx, "things", doc{ID: primitive.NewObjectID()}); !errors.Is(err, injected) {
		t.Fatalf("got %v, want injected", err)
	}
	if err := s.Insert(ctx, "others", doc{ID: primitive.NewObjectID()}); err != nil {
		t.Fatalf("fault leaked to another collection: %v", err)
	}

	s.SetFault(nil)
	if err := s.Insert(ctx, "things", doc{ID: primitive.NewObjectID()}); err != nil {
		t.Fatalf("Insert after clearing fault failed: %v", err)
	}
	if got := s.Mutations(); got != 2 {
		t.Errorf("Mutations = %d, want 2", got)
	}
}
