// internal/app/store/batches/batchstore.go
package batchstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/normalize"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	ds docstore.Store
}

var ErrDuplicateBatch = errors.New("a batch with this name already exists for the level and institute")

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Patch lists the fields an update may change.
type Patch struct {
	Name        *string
	LevelID     *primitive.ObjectID
	BranchID    *primitive.ObjectID
	InstituteID *primitive.ObjectID
}

// scope is the uniqueness key of a batch name. Unset references take part
// as "missing", so two unscoped batches cannot share a name either.
func scope(b models.Batch) docstore.Filter {
	return docstore.Filter{
		"name_ci":      b.NameCI,
		"level_id":     b.LevelID,
		"institute_id": b.InstituteID,
	}
}

func (s *Store) Create(ctx context.Context, b models.Batch) (models.Batch, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.Name = normalize.Title(b.Name)
	b.NameCI = text.Fold(b.Name)
	b.CreatedAt = now
	b.UpdatedAt = now

	n, err := s.ds.Count(ctx, models.CollBatches, scope(b))
	if err != nil {
		return models.Batch{}, err
	}
	if n > 0 {
		return models.Batch{}, ErrDuplicateBatch
	}
	if err := s.ds.Insert(ctx, models.CollBatches, b); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Batch{}, ErrDuplicateBatch
		}
		return models.Batch{}, err
	}
	return b, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Batch, error) {
	return docstore.GetAs[models.Batch](ctx, s.ds, models.CollBatches, id)
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Batch, error) {
	var b models.Batch
	err := s.ds.FindOne(ctx, models.CollBatches, f, &b)
	return b, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Batch, error) {
	return docstore.FindAs[models.Batch](ctx, s.ds, models.CollBatches, f)
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Batch, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Batch{}, err
	}

	set := docstore.Set{"updated_at": time.Now().UTC()}
	rescoped := false
	if p.Name != nil {
		cur.Name = normalize.Title(*p.Name)
		cur.NameCI = text.Fold(cur.Name)
		set["name"] = cur.Name
		set["name_ci"] = cur.NameCI
		rescoped = true
	}
	if p.LevelID != nil {
		cur.LevelID = p.LevelID
		set["level_id"] = *p.LevelID
		rescoped = true
	}
	if p.BranchID != nil {
		set["branch_id"] = *p.BranchID
	}
	if p.InstituteID != nil {
		cur.InstituteID = p.InstituteID
		set["institute_id"] = *p.InstituteID
		rescoped = true
	}
	if rescoped {
		taken, err := docstore.ExistsOther(ctx, s.ds, models.CollBatches, scope(cur), id)
		if err != nil {
			return models.Batch{}, err
		}
		if taken {
			return models.Batch{}, ErrDuplicateBatch
		}
	}

	var out models.Batch
	if err := s.ds.Update(ctx, models.CollBatches, id, set, &out); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Batch{}, ErrDuplicateBatch
		}
		return models.Batch{}, err
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollBatches, id)
}
