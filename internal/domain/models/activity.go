// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is a scored exercise within a category.
type Activity struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	CategoryID primitive.ObjectID `bson:"category_id" json:"category_id"`
	Thumbnail  string             `bson:"thumbnail" json:"thumbnail"`
	Point      int                `bson:"point" json:"point"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
