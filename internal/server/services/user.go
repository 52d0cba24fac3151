// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, profile management, and
// issuing JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const (
	minPasswordLength = 6
	maxNameLength     = 100
)

// UserService provides account operations:
// - Register: create users and mint a first token
// - Login: verify credentials, stamp last-login, mint tokens
// - GetActiveUser: resolve a verified token subject to a live account
// - UpdateProfile / List
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

func validateRegistration(name, email, password string) error {
	details := []string{}
	if strings.TrimSpace(name) == "" {
		details = append(details, "name is required")
	}
	if len(name) > maxNameLength {
		details = append(details, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		details = append(details, "email must be a valid address")
	}
	if len(password) < minPasswordLength {
		details = append(details, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(details) > 0 {
		return common.NewValidationError(details...)
	}
	return nil
}

// Register creates a new account and returns it together with a fresh bearer
// token. A reused email yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(name, email, password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Active:       true,
	}

	repo := s.repomanager.Users(s.db)
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, "", common.ErrorConflict
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the credentials and, on success, stamps last-login and
// returns the user with a fresh bearer token. Bad credentials and inactive
// accounts are indistinguishable (both ErrorUnauthorized).
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", common.ErrorInternal
	}

	if !user.Active || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrorUnauthorized
	}

	if err := repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", common.ErrorInternal
	}
	now := time.Now()
	user.LastLogin = &now

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetActiveUser loads the user for a verified token subject. Unknown or
// deactivated accounts yield ErrorInactiveUser.
func (s *UserService) GetActiveUser(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInactiveUser
		}
		return nil, common.ErrorInternal
	}
	if !user.Active {
		return nil, common.ErrorInactiveUser
	}
	return user, nil
}

// UpdateProfile changes the caller's name and profile image reference.
func (s *UserService) UpdateProfile(ctx context.Context, id, name, profileImage string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.NewValidationError("name is required")
	}
	if len(name) > maxNameLength {
		return nil, common.NewValidationError(fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.UpdateProfile(ctx, id, strings.TrimSpace(name), profileImage)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// List returns a page of users with the total count. Authorization (admin
// only) is enforced by the transport layer.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	repo := s.repomanager.Users(s.db)
	result, total, err := repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return result, total, nil
}
