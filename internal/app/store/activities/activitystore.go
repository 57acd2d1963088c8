// internal/app/store/activities/activitystore.go
package activitystore

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

var ErrDuplicateActivity = errors.New("an activity with this name already exists in the category")

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Patch lists the fields an update may change.
type Patch struct {
	Name       *string
	Thumbnail  *string
	Point      *int
	CategoryID *primitive.ObjectID
}

func (s *Store) Create(ctx context.Context, a models.Activity) (models.Activity, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Name = normalize.Title(a.Name)
	a.NameCI = text.Fold(a.Name)
	a.Thumbnail = strings.TrimSpace(a.Thumbnail)
	a.CreatedAt = now
	a.UpdatedAt = now

	n, err := s.ds.Count(ctx, models.CollActivities, docstore.Filter{"name_ci": a.NameCI, "category_id": a.CategoryID})
	if err != nil {
		return models.Activity{}, err
	}
	if n > 0 {
		return models.Activity{}, ErrDuplicateActivity
	}
	if err := s.ds.Insert(ctx, models.CollActivities, a); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Activity{}, ErrDuplicateActivity
		}
		return models.Activity{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Activity, error) {
	return docstore.GetAs[models.Activity](ctx, s.ds, models.CollActivities, id)
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Activity, error) {
	var a models.Activity
	err := s.ds.FindOne(ctx, models.CollActivities, f, &a)
	return a, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Activity, error) {
	return docstore.FindAs[models.Activity](ctx, s.ds, models.CollActivities, f)
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Activity, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Activity{}, err
	}

	set := docstore.Set{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		cur.Name = normalize.Title(*p.Name)
		cur.NameCI = text.Fold(cur.Name)
		set["name"] = cur.Name
		set["name_ci"] = cur.NameCI
	}
	if p.CategoryID != nil {
		cur.CategoryID = *p.CategoryID
		set["category_id"] = cur.CategoryID
	}
	if p.Thumbnail != nil {
		set["thumbnail"] = strings.TrimSpace(*p.Thumbnail)
	}
	if p.Point != nil {
		set["point"] = *p.Point
	}
	if p.Name != nil || p.CategoryID != nil {
		taken, err := docstore.ExistsOther(ctx, s.ds, models.CollActivities,
			docstore.Filter{"name_ci": cur.NameCI, "category_id": cur.CategoryID}, id)
		if err != nil {
			return models.Activity{}, err
		}
		if taken {
			return models.Activity{}, ErrDuplicateActivity
		}
	}

	var out models.Activity
	if err := s.ds.Update(ctx, models.CollActivities, id, set, &out); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Activity{}, ErrDuplicateActivity
		}
		return models.Activity{}, err
	}
	return out, nil
}

// Delete removes an activity. Nothing else references activities by
// foreign key, so no cascade is needed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.ds.Delete(ctx, models.CollActivities, id)
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollActivities, id)
}
