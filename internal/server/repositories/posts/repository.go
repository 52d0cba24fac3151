package posts

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Filter narrows List results. Zero values mean "no restriction" except
// Limit, which callers must set.
type Filter struct {
	UserID        string
	Search        string
	PublishedOnly bool
	Limit         int
	Offset        int
}

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// GetByID loads a post with its likes, without touching the view counter.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// GetByIDIncrementingViews atomically bumps the view counter and returns
	// the updated post. Every call increments; there is no viewer dedup.
	GetByIDIncrementingViews(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, f Filter) ([]*models.Post, int64, error)
	// Update rewrites the mutable fields of the post identified by
	// post.ID AND post.UserID; a foreign or absent post yields ErrorNotFound.
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id, userID string) error

	HasLike(ctx context.Context, postID, userID string) (bool, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	GetLikes(ctx context.Context, postID string) ([]models.Like, error)
}
