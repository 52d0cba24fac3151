package sitesettings

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.SiteSettings, error)
	// Upsert inserts the row on first write and updates it afterwards.
	Upsert(ctx context.Context, settings *models.SiteSettings) (*models.SiteSettings, error)
}
