// internal/app/store/branches/branchstore.go
package branchstore

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

var ErrDuplicateBranch = errors.New("a branch with this name already exists in the institute")

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Patch lists the fields an update may change.
type Patch struct {
	Name        *string
	InstituteID *primitive.ObjectID
}

// Create stores a new branch. Names are unique within an institute.
func (s *Store) Create(ctx context.Context, b models.Branch) (models.Branch, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.Name = normalize.Title(b.Name)
	b.NameCI = text.Fold(b.Name)
	b.CreatedAt = now
	b.UpdatedAt = now

	n, err := s.ds.Count(ctx, models.CollBranches, docstore.Filter{"name_ci": b.NameCI, "institute_id": b.InstituteID})
	if err != nil {
		return models.Branch{}, err
	}
	if n > 0 {
		return models.Branch{}, ErrDuplicateBranch
	}
	if err := s.ds.Insert(ctx, models.CollBranches, b); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Branch{}, ErrDuplicateBranch
		}
		return models.Branch{}, err
	}
	return b, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Branch, error) {
	return docstore.GetAs[models.Branch](ctx, s.ds, models.CollBranches, id)
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Branch, error) {
	var b models.Branch
	err := s.ds.FindOne(ctx, models.CollBranches, f, &b)
	return b, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Branch, error) {
	return docstore.FindAs[models.Branch](ctx, s.ds, models.CollBranches, f)
}

// Update applies p. A rename or a move to another institute is checked
// against the names already used in the target institute.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Branch, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Branch{}, err
	}

	set := docstore.Set{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		cur.Name = normalize.Title(*p.Name)
		cur.NameCI = text.Fold(cur.Name)
		set["name"] = cur.Name
		set["name_ci"] = cur.NameCI
	}
	if p.InstituteID != nil {
		cur.InstituteID = *p.InstituteID
		set["institute_id"] = cur.InstituteID
	}
	if p.Name != nil || p.InstituteID != nil {
		taken, err := docstore.ExistsOther(ctx, s.ds, models.CollBranches,
			docstore.Filter{"name_ci": cur.NameCI, "institute_id": cur.InstituteID}, id)
		if err != nil {
			return models.Branch{}, err
		}
		if taken {
			return models.Branch{}, ErrDuplicateBranch
		}
	}

	var out models.Branch
	if err := s.ds.Update(ctx, models.CollBranches, id, set, &out); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.Branch{}, ErrDuplicateBranch
		}
		return models.Branch{}, err
	}
	return out, nil
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollBranches, id)
}
