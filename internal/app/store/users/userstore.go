// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"slices"
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

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

var (
	// ErrDuplicateEmail is returned when an admin email is already registered.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrDuplicateMobile is returned when a parent mobile number is already registered.
	ErrDuplicateMobile = errors.New("a parent with this mobile number already exists")
	// ErrSuperAdminExists is returned by any attempt to create a second superadmin.
	ErrSuperAdminExists = errors.New("a superadmin already exists")

	ErrBadRole           = errors.New(`role must be "SUPERADMIN"|"ADMIN"|"PARENT"|"STUDENT"`)
	ErrCredentialsNeeded = errors.New("admins need an email and a password")
	ErrMobileNeeded      = errors.New("parents need a mobile number")
	ErrStudentRefs       = errors.New("students need parent_id, batch_id, branch_id and institute_id")
	ErrPointsNotAllowed  = errors.New("points can only be recorded for students")

	// ErrCascadeOnly is returned by Delete for parents, whose students must
	// go with them.
	ErrCascadeOnly = errors.New("parents are deleted together with their students")
)

// Patch lists the fields an update may change. Password must already be hashed.
type Patch struct {
	Name        *string
	Email       *string
	Password    *string
	Mobile      *string
	ParentID    *string
	BatchID     *primitive.ObjectID
	BranchID    *primitive.ObjectID
	InstituteID *primitive.ObjectID
	Points      *[]models.CategoryPoints
}

func strPtr(s string) *string { return &s }

// prepare normalizes u and checks the role-specific required fields.
func prepare(u *models.User) error {
	u.Role = normalize.Role(u.Role)
	if !slices.Contains(models.Roles, u.Role) {
		return ErrBadRole
	}
	u.Name = normalize.Name(u.Name)
	if u.Email != nil {
		e := normalize.Email(*u.Email)
		u.Email = strPtr(e)
		u.EmailCI = strPtr(text.Fold(e))
	}
	if u.Mobile != nil {
		u.Mobile = strPtr(normalize.Mobile(*u.Mobile))
	}
	if len(u.Points) > 0 && u.Role != models.RoleStudent {
		return ErrPointsNotAllowed
	}

	switch u.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		if u.Email == nil || *u.Email == "" || u.Password == "" {
			return ErrCredentialsNeeded
		}
	case models.RoleParent:
		if u.Mobile == nil || *u.Mobile == "" {
			return ErrMobileNeeded
		}
	case models.RoleStudent:
		if u.ParentID == nil || u.BatchID == nil || u.BranchID == nil || u.InstituteID == nil {
			return ErrStudentRefs
		}
	}
	return nil
}

// Create inserts a new user after normalizing and validating fields. A
// SUPERADMIN goes through CreateSuperAdmin so the single-superadmin rule
// holds no matter which entry point is used.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	if normalize.Role(u.Role) == models.RoleSuperAdmin {
		return s.CreateSuperAdmin(ctx, u)
	}
	return s.create(ctx, u)
}

// CreateSuperAdmin creates the one and only superadmin. The existence check
// and the insert share a transaction; the partial unique index on role
// catches the race the check cannot see on Mongo.
func (s *Store) CreateSuperAdmin(ctx context.Context, u models.User) (models.User, error) {
	u.Role = models.RoleSuperAdmin
	var out models.User
	err := s.ds.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.ds.Count(ctx, models.CollUsers, docstore.Filter{"role": models.RoleSuperAdmin})
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrSuperAdminExists
		}
		out, err = s.create(ctx, u)
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (s *Store) create(ctx context.Context, u models.User) (models.User, error) {
	if err := prepare(&u); err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	u.ID = models.NewUserID(u.Role)
	u.CreatedAt = now
	u.UpdatedAt = now

	if u.EmailCI != nil {
		n, err := s.ds.Count(ctx, models.CollUsers, docstore.Filter{"email_ci": *u.EmailCI})
		if err != nil {
			return models.User{}, err
		}
		if n > 0 {
			return models.User{}, ErrDuplicateEmail
		}
	}
	if u.Role == models.RoleParent {
		n, err := s.ds.Count(ctx, models.CollUsers, docstore.Filter{"role": models.RoleParent, "mobile": *u.Mobile})
		if err != nil {
			return models.User{}, err
		}
		if n > 0 {
			return models.User{}, ErrDuplicateMobile
		}
	}

	if err := s.ds.Insert(ctx, models.CollUsers, u); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.User{}, dupFor(u.Role)
		}
		return models.User{}, err
	}
	return u, nil
}

func dupFor(role string) error {
	switch role {
	case models.RoleSuperAdmin:
		return ErrSuperAdminExists
	case models.RoleParent:
		return ErrDuplicateMobile
	default:
		return ErrDuplicateEmail
	}
}

// GetByID loads a user of any role.
func (s *Store) GetByID(ctx context.Context, id string) (models.User, error) {
	return docstore.GetAs[models.User](ctx, s.ds, models.CollUsers, id)
}

// GetByRoleAndID loads a user, returning docstore.ErrNotFound if the user
// does not exist or holds a different role.
func (s *Store) GetByRoleAndID(ctx context.Context, role, id string) (models.User, error) {
	return s.FindOne(ctx, docstore.Filter{"_id": id, "role": role})
}

// GetByEmail looks up an admin or superadmin by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.FindOne(ctx, docstore.Filter{"email_ci": text.Fold(normalize.Email(email))})
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.User, error) {
	var u models.User
	err := s.ds.FindOne(ctx, models.CollUsers, f, &u)
	return u, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.User, error) {
	return docstore.FindAs[models.User](ctx, s.ds, models.CollUsers, f)
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	return s.List(ctx, docstore.Filter{"role": role})
}

// Update applies p to the user with the given role and id.
func (s *Store) Update(ctx context.Context, role, id string, p Patch) (models.User, error) {
	cur, err := s.GetByRoleAndID(ctx, role, id)
	if err != nil {
		return models.User{}, err
	}

	set := docstore.Set{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = normalize.Name(*p.Name)
	}
	if p.Email != nil {
		e := normalize.Email(*p.Email)
		eci := text.Fold(e)
		taken, err := docstore.ExistsOther(ctx, s.ds, models.CollUsers, docstore.Filter{"email_ci": eci}, cur.ID)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, ErrDuplicateEmail
		}
		set["email"] = e
		set["email_ci"] = eci
	}
	if p.Password != nil {
		set["password"] = *p.Password
	}
	if p.Mobile != nil {
		m := normalize.Mobile(*p.Mobile)
		if cur.Role == models.RoleParent {
			taken, err := docstore.ExistsOther(ctx, s.ds, models.CollUsers,
				docstore.Filter{"role": models.RoleParent, "mobile": m}, cur.ID)
			if err != nil {
				return models.User{}, err
			}
			if taken {
				return models.User{}, ErrDuplicateMobile
			}
		}
		set["mobile"] = m
	}
	if p.ParentID != nil {
		set["parent_id"] = *p.ParentID
	}
	if p.BatchID != nil {
		set["batch_id"] = *p.BatchID
	}
	if p.BranchID != nil {
		set["branch_id"] = *p.BranchID
	}
	if p.InstituteID != nil {
		set["institute_id"] = *p.InstituteID
	}
	if p.Points != nil {
		if cur.Role != models.RoleStudent {
			return models.User{}, ErrPointsNotAllowed
		}
		set["points"] = *p.Points
	}

	var out models.User
	if err := s.ds.Update(ctx, models.CollUsers, cur.ID, set, &out); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return models.User{}, dupFor(cur.Role)
		}
		return models.User{}, err
	}
	return out, nil
}

// UpdatePoints replaces a student's recorded points.
func (s *Store) UpdatePoints(ctx context.Context, id string, points []models.CategoryPoints) (models.User, error) {
	return s.Update(ctx, models.RoleStudent, id, Patch{Points: &points})
}

// Delete removes a single user of the given role. Parents are deleted
// through the cascade engine instead, which also removes their students.
func (s *Store) Delete(ctx context.Context, role, id string) (bool, error) {
	if role == models.RoleParent {
		return false, ErrCascadeOnly
	}
	removed := false
	err := s.ds.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.ds.Count(ctx, models.CollUsers, docstore.Filter{"_id": id, "role": role})
		if err != nil || n == 0 {
			return err
		}
		removed, err = s.ds.Delete(ctx, models.CollUsers, id)
		return err
	})
	return removed, err
}

func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollUsers, id)
}

// CountByRole returns how many users hold role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.ds.Count(ctx, models.CollUsers, docstore.Filter{"role": role})
}
