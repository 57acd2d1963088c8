// internal/domain/models/batch.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Batch groups students of one level at a branch.
// Every reference is optional, but any that is set must resolve.
type Batch struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"-"`
	LevelID     *primitive.ObjectID `bson:"level_id,omitempty" json:"level_id,omitempty"`
	BranchID    *primitive.ObjectID `bson:"branch_id,omitempty" json:"branch_id,omitempty"`
	InstituteID *primitive.ObjectID `bson:"institute_id,omitempty" json:"institute_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}
