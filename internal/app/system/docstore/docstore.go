// internal/app/system/docstore/docstore.go
//
// Package docstore is the document database contract used by the stores and
// the cascade engine. MongoStore is the production implementation; MemStore
// keeps everything in process and is used by tests and memory-backed dev runs.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a lookup by key or filter matches nothing.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert collides with an existing key
	// or a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// Filter matches documents by field equality. A value of type In matches
// when the field equals any of its members. All entries must match.
type Filter map[string]any

// In is a set-membership filter value.
type In []any

// Set lists fields to overwrite in an update, keyed by bson field name.
type Set map[string]any

// Store is the document store contract.
//
// Every method runs inside the transaction carried by ctx, when there is one.
type Store interface {
	// Get decodes the document with the given _id into out.
	Get(ctx context.Context, coll string, key any, out any) error
	// FindOne decodes the first document matching f into out.
	FindOne(ctx context.Context, coll string, f Filter, out any) error
	// Find decodes every document matching f into out, which must be a
	// pointer to a slice.
	Find(ctx context.Context, coll string, f Filter, out any) error
	// Keys returns the _id of every document matching f.
	Keys(ctx context.Context, coll string, f Filter) ([]any, error)
	// Count returns the number of documents matching f.
	Count(ctx context.Context, coll string, f Filter) (int64, error)
	// Insert stores doc. Collisions return ErrDuplicate.
	Insert(ctx context.Context, coll string, doc any) error
	// Update overwrites the fields in set on the document with the given
	// _id and decodes the post-update document into out (if non-nil).
	Update(ctx context.Context, coll string, key any, set Set, out any) error
	// Delete removes the document with the given _id and reports whether
	// anything was removed.
	Delete(ctx context.Context, coll string, key any) (bool, error)
	// DeleteMany removes every document whose _id is in keys.
	DeleteMany(ctx context.Context, coll string, keys []any) (int64, error)
	// WithTransaction runs fn atomically. If ctx already carries a
	// transaction, fn joins it. Any error returned by fn aborts.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error
}

// GetAs is a typed Get.
func GetAs[T any](ctx context.Context, s Store, coll string, key any) (T, error) {
	var out T
	err := s.Get(ctx, coll, key, &out)
	return out, err
}

// FindAs is a typed Find. It never returns a nil slice on success.
func FindAs[T any](ctx context.Context, s Store, coll string, f Filter) ([]T, error) {
	out := []T{}
	if err := s.Find(ctx, coll, f, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether a document with the given _id exists.
func Exists(ctx context.Context, s Store, coll string, key any) (bool, error) {
	n, err := s.Count(ctx, coll, Filter{"_id": key})
	return n > 0, err
}

// ExistsOther reports whether a document other than exclude matches f.
// Updates use it to keep a name unique while letting the document keep its own.
func ExistsOther(ctx context.Context, s Store, coll string, f Filter, exclude any) (bool, error) {
	keys, err := s.Keys(ctx, coll, f)
	if err != nil {
		return false, err
	}
	for _, k := range keys {
		if k != exclude {
			return true, nil
		}
	}
	return false, nil
}
