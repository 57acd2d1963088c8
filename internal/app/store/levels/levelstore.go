// internal/app/store/levels/levelstore.go
package levelstore

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

var ErrDuplicateLevel = errors.New("a level with this name already exists")

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

func (s *Store) Create(ctx context.Context, l models.Level) (models.Level, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.Name = normalize.Title(l.Name)
	l.NameCI = text.Fold(l.Name)
	l.CreatedAt = now
	l.UpdatedAt = now

	n, err := s.ds.Count(ctx, models.CollLevels, docstore.Filter{"name_ci": l.NameCI})
	if err != nil {
		return models.Level{}, err
	}
	if n > 0 {
		return models.Level{}, ErrDuplicateLevel
	}
	if err := s.ds.Insert(ctx, models.CollLevels, l); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Level{}, ErrDuplicateLevel
		}
		return models.Level{}, err
	}
	return l, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Level, error) {
	return docstore.GetAs[models.Level](ctx, s.ds, models.CollLevels, id)
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Level, error) {
	var l models.Level
	err := s.ds.FindOne(ctx, models.CollLevels, f, &l)
	return l, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Level, error) {
	return docstore.FindAs[models.Level](ctx, s.ds, models.CollLevels, f)
}

// Patch lists the fields an update may change.
type Patch struct {
	Name *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Level, error) {
	if p.Name == nil {
		var out models.Level
		err := s.ds.Update(ctx, models.CollLevels, id, docstore.Set{"updated_at": time.Now().UTC()}, &out)
		return out, err
	}
	name := normalize.Title(*p.Name)
	nameCI := text.Fold(name)
	taken, err := docstore.ExistsOther(ctx, s.ds, models.CollLevels, docstore.Filter{"name_ci": nameCI}, id)
	if err != nil {
		return models.Level{}, err
	}
	if taken {
		return models.Level{}, ErrDuplicateLevel
	}

	var out models.Level
	err = s.ds.Update(ctx, models.CollLevels, id, docstore.Set{
		"name":       name,
		"name_ci":    nameCI,
		"updated_at": time.Now().UTC(),
	}, &out)
	if errors.Is(err, docstore.ErrDuplicate) {
		return models.Level{}, ErrDuplicateLevel
	}
	return out, err
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollLevels, id)
}
