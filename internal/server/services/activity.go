package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/activities"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const (
	maxDescriptionLength = 2000
	maxDocumentCount     = 10
)

// ActivityService implements portfolio activity CRUD and attachment
// management (links, documents, character illustration).
type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewActivityService constructs an ActivityService.
func NewActivityService(db *sql.DB, m repomanager.RepositoryManager) *ActivityService {
	return &ActivityService{db: db, repomanager: m}
}

func validLinkURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateActivity(activity *models.Activity) error {
	details := []string{}
	if strings.TrimSpace(activity.Title) == "" {
		details = append(details, "title is required")
	}
	if len(activity.Title) > maxTitleLength {
		details = append(details, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if len(activity.Description) > maxDescriptionLength {
		details = append(details, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	if !models.ValidCategory(activity.Category) {
		details = append(details, "category must be one of: "+strings.Join(models.ActivityCategories, ", "))
	}
	if !models.ValidDifficulty(activity.Difficulty) {
		details = append(details, "difficulty must be one of: "+strings.Join(models.ActivityDifficulties, ", "))
	}
	if activity.EstimatedMinutes < 0 {
		details = append(details, "estimated minutes must not be negative")
	}
	for _, link := range activity.Links {
		if !validLinkURL(link.URL) {
			details = append(details, fmt.Sprintf("link %q must be an absolute http(s) URL", link.URL))
		}
	}
	if len(details) > 0 {
		return common.NewValidationError(details...)
	}
	return nil
}

// Create validates and stores a new activity owned by activity.UserID.
func (s *ActivityService) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if err := validateActivity(activity); err != nil {
		return nil, err
	}

	repo := s.repomanager.Activities(s.db)
	created, err := repo.Create(ctx, activity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// Get returns the activity by id.
func (s *ActivityService) Get(ctx context.Context, id string) (*models.Activity, error) {
	repo := s.repomanager.Activities(s.db)
	activity, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return activity, nil
}

// List returns a filtered page of activities with the total count.
func (s *ActivityService) List(ctx context.Context, f activities.Filter) ([]*models.Activity, int64, error) {
	repo := s.repomanager.Activities(s.db)
	result, total, err := repo.List(ctx, f)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return result, total, nil
}

// Update validates and rewrites an existing activity, owner-scoped.
func (s *ActivityService) Update(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	if err := validateActivity(activity); err != nil {
		return nil, err
	}

	repo := s.repomanager.Activities(s.db)
	updated, err := repo.Update(ctx, activity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// Delete removes the caller's activity.
func (s *ActivityService) Delete(ctx context.Context, id, userID string) error {
	repo := s.repomanager.Activities(s.db)
	if err := repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// AddDocument appends an uploaded document to the caller's activity.
func (s *ActivityService) AddDocument(ctx context.Context, id, userID string, doc models.ActivityDocument) (*models.Activity, error) {
	repo := s.repomanager.Activities(s.db)
	activity, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if len(activity.Documents) >= maxDocumentCount {
		return nil, common.NewValidationError(fmt.Sprintf("at most %d documents are allowed", maxDocumentCount))
	}
	activity.Documents = append(activity.Documents, doc)

	updated, err := repo.Update(ctx, activity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// RemoveDocument deletes a document of the caller's activity by position.
func (s *ActivityService) RemoveDocument(ctx context.Context, id, userID string, index int) (*models.Activity, error) {
	repo := s.repomanager.Activities(s.db)
	activity, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if index < 0 || index >= len(activity.Documents) {
		return nil, common.ErrorNotFound
	}
	activity.Documents = append(activity.Documents[:index], activity.Documents[index+1:]...)

	updated, err := repo.Update(ctx, activity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// RemoveLink deletes a link of the caller's activity by position.
func (s *ActivityService) RemoveLink(ctx context.Context, id, userID string, index int) (*models.Activity, error) {
	repo := s.repomanager.Activities(s.db)
	activity, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if index < 0 || index >= len(activity.Links) {
		return nil, common.ErrorNotFound
	}
	activity.Links = append(activity.Links[:index], activity.Links[index+1:]...)

	updated, err := repo.Update(ctx, activity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// SetCharacterImage replaces the character illustration of the caller's
// activity with an uploaded image (stored as a data URI).
func (s *ActivityService) SetCharacterImage(ctx context.Context, id, userID, dataURI string) (*models.Activity, error) {
	repo := s.repomanager.Activities(s.db)
	activity, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	activity.CharacterImage = dataURI

	updated, err := repo.Update(ctx, activity)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return updated, nil
}
