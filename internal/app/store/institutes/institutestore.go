// internal/app/store/institutes/institutestore.go
package institutestore

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

var ErrDuplicateInstitute = errors.New("an institute with this name already exists")

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Patch lists the fields an update may change. Nil fields are left alone.
type Patch struct {
	Name               *string
	SubscriptionType   *string
	SubscriptionExpiry *time.Time
	ActivityPrivileges *[]models.Privilege
}

// Create stores a new institute. The name and subscription type are
// upper-cased, and the folded name must not already be taken.
func (s *Store) Create(ctx context.Context, inst models.Institute) (models.Institute, error) {
	now := time.Now().UTC()
	inst.ID = primitive.NewObjectID()
	inst.Name = normalize.Name(inst.Name)
	inst.NameCI = text.Fold(inst.Name)
	inst.SubscriptionType = normalize.Role(inst.SubscriptionType)
	inst.CreatedAt = now
	inst.UpdatedAt = now

	taken, err := s.ExistsByNameCI(ctx, inst.NameCI)
	if err != nil {
		return models.Institute{}, err
	}
	if taken {
		return models.Institute{}, ErrDuplicateInstitute
	}
	if err := s.ds.Insert(ctx, models.CollInstitutes, inst); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Institute{}, ErrDuplicateInstitute
		}
		return models.Institute{}, err
	}
	return inst, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Institute, error) {
	return docstore.GetAs[models.Institute](ctx, s.ds, models.CollInstitutes, id)
}

// FindOne returns the first institute matching f.
func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Institute, error) {
	var inst models.Institute
	err := s.ds.FindOne(ctx, models.CollInstitutes, f, &inst)
	return inst, err
}

// List returns institutes matching f (all of them when f is nil).
func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Institute, error) {
	return docstore.FindAs[models.Institute](ctx, s.ds, models.CollInstitutes, f)
}

// Update applies p and returns the institute as stored afterwards.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Institute, error) {
	set := docstore.Set{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		name := normalize.Name(*p.Name)
		nameCI := text.Fold(name)
		taken, err := docstore.ExistsOther(ctx, s.ds, models.CollInstitutes, docstore.Filter{"name_ci": nameCI}, id)
		if err != nil {
			return models.Institute{}, err
		}
		if taken {
			return models.Institute{}, ErrDuplicateInstitute
		}
		set["name"] = name
		set["name_ci"] = nameCI
	}
	if p.SubscriptionType != nil {
		set["subscription_type"] = normalize.Role(*p.SubscriptionType)
	}
	if p.SubscriptionExpiry != nil {
		set["subscription_expiry"] = p.SubscriptionExpiry.UTC()
	}
	if p.ActivityPrivileges != nil {
		set["activity_privileges"] = *p.ActivityPrivileges
	}

	var out models.Institute
	if err := s.ds.Update(ctx, models.CollInstitutes, id, set, &out); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Institute{}, ErrDuplicateInstitute
		}
		return models.Institute{}, err
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollInstitutes, id)
}

// ExistsByNameCI checks if an institute with the given folded name exists.
func (s *Store) ExistsByNameCI(ctx context.Context, nameCI string) (bool, error) {
	n, err := s.ds.Count(ctx, models.CollInstitutes, docstore.Filter{"name_ci": nameCI})
	return n > 0, err
}
