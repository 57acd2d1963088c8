// internal/domain/models/institute.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription types an institute may hold.
const (
	SubscriptionFree = "FREE"
	SubscriptionPaid = "PAID"
)

// Institute is the top of the tenancy hierarchy.
// Name is stored upper-cased; NameCI is the folded key used for uniqueness.
type Institute struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	Name               string             `bson:"name" json:"name"`
	NameCI             string             `bson:"name_ci" json:"-"`
	SubscriptionType   string             `bson:"subscription_type" json:"subscription_type"`
	SubscriptionExpiry *time.Time         `bson:"subscription_expiry,omitempty" json:"subscription_expiry,omitempty"`
	ActivityPrivileges []Privilege        `bson:"activity_privileges,omitempty" json:"activity_privileges,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// Privilege grants an institute access to activities within a level.
type Privilege struct {
	LevelID    primitive.ObjectID  `bson:"level_id" json:"level_id"`
	Categories []CategoryPrivilege `bson:"categories,omitempty" json:"categories,omitempty"`
}

// CategoryPrivilege narrows a Privilege to one category and a set of its activities.
type CategoryPrivilege struct {
	CategoryID  primitive.ObjectID   `bson:"category_id" json:"category_id"`
	ActivityIDs []primitive.ObjectID `bson:"activity_ids,omitempty" json:"activity_ids,omitempty"`
}
