package repositories

import (
	"context"

	"github.com/reelstream/backend/internal/models"
)

// ReelUpdate carries a partial field set for an update; nil fields are
// left untouched.
type ReelUpdate struct {
	VideoURL     *string
	ThumbnailURL *string
	Title        *string
	Description  *string
	AuthorName   *string
	AvatarURL    *string
	Tags         *[]string
	Likes        *int
	Comments     *int
	Shares       *int
	Views        *int
	IsLiked      *bool
}

// Empty reports whether the update carries no fields.
func (u ReelUpdate) Empty() bool {
	return u.VideoURL == nil && u.ThumbnailURL == nil && u.Title == nil &&
		u.Description == nil && u.AuthorName == nil && u.AvatarURL == nil &&
		u.Tags == nil && u.Likes == nil && u.Comments == nil &&
		u.Shares == nil && u.Views == nil && u.IsLiked == nil
}

// ReelRepository exposes data access for reel records.
type ReelRepository interface {
	Create(ctx context.Context, reel models.Reel) error
	Get(ctx context.Context, id string) (models.Reel, error)
	Update(ctx context.Context, id string, update ReelUpdate) (models.Reel, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Reel, error)
}
