// internal/app/store/videos/videostore.go
package videostore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/app/system/htmlsanitize"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store manages lesson videos. Video URLs are not unique.
type Store struct {
	ds docstore.Store
}

func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Patch lists the fields an update may change.
type Patch struct {
	URL         *string
	Description *string
	CategoryID  *primitive.ObjectID
}

// Create stores a video. The description may carry limited HTML; anything
// outside the UGC policy is stripped.
func (s *Store) Create(ctx context.Context, v models.Video) (models.Video, error) {
	now := time.Now().UTC()
	v.ID = primitive.NewObjectID()
	v.URL = strings.TrimSpace(v.URL)
	v.Description = htmlsanitize.Sanitize(v.Description)
	v.CreatedAt = now
	v.UpdatedAt = now

	if err := s.ds.Insert(ctx, models.CollVideos, v); err != nil {
		return models.Video{}, err
	}
	return v, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Video, error) {
	return docstore.GetAs[models.Video](ctx, s.ds, models.CollVideos, id)
}

func (s *Store) FindOne(ctx context.Context, f docstore.Filter) (models.Video, error) {
	var v models.Video
	err := s.ds.FindOne(ctx, models.CollVideos, f, &v)
	return v, err
}

func (s *Store) List(ctx context.Context, f docstore.Filter) ([]models.Video, error) {
	return docstore.FindAs[models.Video](ctx, s.ds, models.CollVideos, f)
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Video, error) {
	set := docstore.Set{"updated_at": time.Now().UTC()}
	if p.URL != nil {
		set["url"] = strings.TrimSpace(*p.URL)
	}
	if p.Description != nil {
		set["description"] = htmlsanitize.Sanitize(*p.Description)
	}
	if p.CategoryID != nil {
		set["category_id"] = *p.CategoryID
	}
	var out models.Video
	err := s.ds.Update(ctx, models.CollVideos, id, set, &out)
	return out, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.ds.Delete(ctx, models.CollVideos, id)
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return docstore.Exists(ctx, s.ds, models.CollVideos, id)
}
