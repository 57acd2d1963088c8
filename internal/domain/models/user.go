// internal/domain/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user may hold.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleParent     = "PARENT"
	RoleStudent    = "STUDENT"
)

// Roles lists every valid role.
var Roles = []string{RoleSuperAdmin, RoleAdmin, RoleParent, RoleStudent}

// User represents superadmins, admins, parents, and students in one collection.
//
// NOTE:
//   - ID is a string key of the form "ROL_<hex>" (e.g. "STU_4f1c…"), not an ObjectID.
//   - Email/EmailCI are only set for ADMIN and SUPERADMIN; Mobile only for PARENT.
//   - Points is only meaningful for STUDENT.
//   - Password holds a bcrypt hash and is never serialized to JSON.
type User struct {
	ID          string              `bson:"_id" json:"id"`
	Name        string              `bson:"name,omitempty" json:"name,omitempty"`
	Email       *string             `bson:"email,omitempty" json:"email,omitempty"`
	EmailCI     *string             `bson:"email_ci,omitempty" json:"-"`
	Password    string              `bson:"password,omitempty" json:"-"`
	Mobile      *string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Role        string              `bson:"role" json:"role"`
	ParentID    *string             `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	BatchID     *primitive.ObjectID `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	BranchID    *primitive.ObjectID `bson:"branch_id,omitempty" json:"branch_id,omitempty"`
	InstituteID *primitive.ObjectID `bson:"institute_id,omitempty" json:"institute_id,omitempty"`
	Points      []CategoryPoints    `bson:"points,omitempty" json:"points,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// CategoryPoints holds a student's scores for the activities of one category.
type CategoryPoints struct {
	CategoryID primitive.ObjectID `bson:"category_id" json:"category_id"`
	Activities []ActivityPoints   `bson:"activities" json:"activities"`
}

// ActivityPoints is a single activity score.
type ActivityPoints struct {
	ActivityID primitive.ObjectID `bson:"activity_id" json:"activity_id"`
	Point      int                `bson:"point" json:"point"`
}

// IsStudent reports whether the user holds the STUDENT role.
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// IsParent reports whether the user holds the PARENT role.
func (u User) IsParent() bool { return u.Role == RoleParent }

// NewUserID returns a fresh user key: the first three letters of the role,
// an underscore, and 19 random hex digits (e.g. "STU_9f0c1d2e3a4b5c6d7e8").
func NewUserID(role string) string {
	prefix := strings.ToUpper(role)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + hex[:19]
}
