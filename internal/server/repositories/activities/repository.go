package activities

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// Filter narrows List results.
type Filter struct {
	UserID   string
	Search   string
	Category string
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	// GetOwned loads the activity only when it belongs to userID; a foreign
	// activity reads as absent.
	GetOwned(ctx context.Context, id, userID string) (*models.Activity, error)
	List(ctx context.Context, f Filter) ([]*models.Activity, int64, error)
	// Update rewrites all mutable fields scoped by activity.ID AND
	// activity.UserID.
	Update(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	Delete(ctx context.Context, id, userID string) error
}
