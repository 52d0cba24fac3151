package sitesettings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.SiteSettings, error) {
	query :=
		`SELECT user_id, hero_title, hero_description, created_at, updated_at
		 FROM site_settings WHERE user_id = $1
		 `

	settings := &models.SiteSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&settings.UserID, &settings.HeroTitle, &settings.HeroDescription,
			&settings.CreatedAt, &settings.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return settings, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, settings *models.SiteSettings) (*models.SiteSettings, error) {
	query :=
		`INSERT INTO site_settings (user_id, hero_title, hero_description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET hero_title = EXCLUDED.hero_title, hero_description = EXCLUDED.hero_description, updated_at = now()
		 RETURNING user_id, hero_title, hero_description, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		settings.UserID, settings.HeroTitle, settings.HeroDescription).
		Scan(&settings.UserID, &settings.HeroTitle, &settings.HeroDescription,
			&settings.CreatedAt, &settings.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return settings, nil
}
