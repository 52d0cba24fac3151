package images

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Filter narrows List results. WithData controls whether the base64 payload
// is loaded; public gallery listings leave it off.
type Filter struct {
	UserID     string
	Search     string
	PublicOnly bool
	WithData   bool
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	GetByID(ctx context.Context, id string) (*models.Image, error)
	// GetOwned loads the image only when it belongs to userID.
	GetOwned(ctx context.Context, id, userID string) (*models.Image, error)
	List(ctx context.Context, f Filter) ([]*models.Image, int64, error)
	// Update rewrites the metadata fields (name, public flag, tags,
	// description) scoped by image.ID AND image.UserID.
	Update(ctx context.Context, image *models.Image) (*models.Image, error)
	Delete(ctx context.Context, id, userID string) error
}
