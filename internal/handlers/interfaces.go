package handlers

import (
	"context"

	"github.com/reelstream/backend/internal/models"
	"github.com/reelstream/backend/internal/repositories"
)

// ReelStore captures the persistence operations required by the mutating
// reel endpoints.
type ReelStore interface {
	Create(ctx context.Context, reel models.Reel) error
	Update(ctx context.Context, id string, update repositories.ReelUpdate) (models.Reel, error)
	Delete(ctx context.Context, id string) error
}

// ReelSource serves reads, typically through the metadata cache.
type ReelSource interface {
	List(ctx context.Context) ([]models.Reel, error)
	Get(ctx context.Context, id string) (models.Reel, error)
}

// CacheInvalidator drops stale cache entries after a mutating operation.
type CacheInvalidator interface {
	Invalidate(id string)
	InvalidateList()
}

// UploadURLSigner issues time-limited direct-upload locators.
type UploadURLSigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
}

// RateLimiter is the minimal interface required to guard sensitive endpoints.
type RateLimiter interface {
	Allow(key string) bool
}
