// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"strings"
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

var ErrDuplicateCategory = errors.New("a category with this name already exists in the level")

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Patch lists the fields an update may change.
type Patch struct {
	Name      *string
	Thumbnail *string
	LevelID   *primitive.ObjectID
}

func (s *Store) Create(ctx context.Context, c models.Category) (models.Category, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Title(c.Name)
	c.NameCI = text.Fold(c.Name)
	c.Thumbnail = strings.TrimSpace(c.Thumbnail)
	c.CreatedAt = now
	c.UpdatedAt = now

	n, err := s.ds.Count(ctx, models.CollCategories, docstore.Filter{"name_ci": c.NameCI, "level_id": c.LevelID})
	if err != nil {
		return models.Category{}, err
	}
	if n > 0 {
		return models.Category{}, ErrDuplicateCategory
	}
	if err := s.ds.Insert(ctx, models.CollCategories, c); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Category{}, ErrDuplicateCategory
		}
		return models.Category{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	return docstore.GetAs[models.Category](ctx, s.ds, models.CollCategories, id)
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Category, error) {
	var c models.Category
	err := s.ds.FindOne(ctx, models.CollCategories, f, &c)
	return c, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Category, error) {
	return docstore.FindAs[models.Category](ctx, s.ds, models.CollCategories, f)
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Category, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	set := docstore.Set{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		cur.Name = normalize.Title(*p.Name)
		cur.NameCI = text.Fold(cur.Name)
		set["name"] = cur.Name
		set["name_ci"] = cur.NameCI
	}
	if p.LevelID != nil {
		cur.LevelID = *p.LevelID
		set["level_id"] = cur.LevelID
	}
	if p.Thumbnail != nil {
		set["thumbnail"] = strings.TrimSpace(*p.Thumbnail)
	}
	if p.Name != nil || p.LevelID != nil {
		taken, err := docstore.ExistsOther(ctx, s.ds, models.CollCategories,
			docstore.Filter{"name_ci": cur.NameCI, "level_id": cur.LevelID}, id)
		if err != nil {
			return models.Category{}, err
		}
		if taken {
			return models.Category{}, ErrDuplicateCategory
		}
	}

	var out models.Category
	if err := s.ds.Update(ctx, models.CollCategories, id, set, &out); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Category{}, ErrDuplicateCategory
		}
		return models.Category{}, err
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollCategories, id)
}
