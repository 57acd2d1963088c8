// internal/domain/models/video.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is a hosted lesson attached to a category.
type Video struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	URL         string             `bson:"url" json:"url"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
