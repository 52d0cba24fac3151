package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const (
	maxHeroTitleLength       = 100
	maxHeroDescriptionLength = 500
)

// SiteSettingsService manages per-user site customization with lazy default
// creation.
type SiteSettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewSiteSettingsService constructs a SiteSettingsService.
func NewSiteSettingsService(db *sql.DB, m repomanager.RepositoryManager) *SiteSettingsService {
	return &SiteSettingsService{db: db, repomanager: m}
}

// Get returns the caller's settings, creating the row with defaults on first
// access.
func (s *SiteSettingsService) Get(ctx context.Context, userID string) (*models.SiteSettings, error) {
	repo := s.repomanager.SiteSettings(s.db)
	settings, err := repo.Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	created, err := repo.Upsert(ctx, models.DefaultSiteSettings(userID))
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// GetPublic returns another user's settings for the public site, falling back
// to hard-coded defaults without persisting anything.
func (s *SiteSettingsService) GetPublic(ctx context.Context, userID string) (*models.SiteSettings, error) {
	repo := s.repomanager.SiteSettings(s.db)
	settings, err := repo.Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if errors.Is(err, common.ErrorNotFound) {
		return models.DefaultSiteSettings(userID), nil
	}
	return nil, common.ErrorInternal
}

// Update validates and stores the caller's hero title and description.
func (s *SiteSettingsService) Update(ctx context.Context, userID, heroTitle, heroDescription string) (*models.SiteSettings, error) {
	details := []string{}
	if heroTitle == "" {
		details = append(details, "hero title is required")
	}
	if len(heroTitle) > maxHeroTitleLength {
		details = append(details, fmt.Sprintf("hero title must be at most %d characters", maxHeroTitleLength))
	}
	if len(heroDescription) > maxHeroDescriptionLength {
		details = append(details, fmt.Sprintf("hero description must be at most %d characters", maxHeroDescriptionLength))
	}
	if len(details) > 0 {
		return nil, common.NewValidationError(details...)
	}

	settings := &models.SiteSettings{
		UserID:          userID,
		HeroTitle:       heroTitle,
		HeroDescription: heroDescription,
	}

	updated, err := s.repomanager.SiteSettings(s.db).Upsert(ctx, settings)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return updated, nil
}
