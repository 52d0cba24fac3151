package users

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdateProfile changes the mutable profile fields only.
	UpdateProfile(ctx context.Context, id, name, profileImage string) (*models.User, error)
	// TouchLastLogin stamps last_login with the current time.
	TouchLastLogin(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*models.User, int64, error)
}
