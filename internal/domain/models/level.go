// internal/domain/models/level.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Level is a global curriculum tier shared by all institutes.
type Level struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
