package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

func newUserService(users *fakeUserRepo) *UserService {
	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  4,
	}
	return NewUserService(nil, &fakeRepoManager{users: users}, cfg)
}

func TestRegister_OK(t *testing.T) {
	s := newUserService(newFakeUserRepo())

	user, token, err := s.Register(context.Background(), "Alice", "Alice@Example.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.Role != models.RoleUser || !user.Active {
		t.Fatalf("unexpected role/active: %q/%v", user.Role, user.Active)
	}
	if user.PasswordHash == "password1" || user.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}

	subject, err := auth.GetUserIDFromToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("token subject %q, want %q", subject, user.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newUserService(newFakeUserRepo())
	ctx := context.Background()

	if _, _, err := s.Register(ctx, "Alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, _, err := s.Register(ctx, "Alice Again", "alice@example.com", "password2")
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want ErrorConflict, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	s := newUserService(newFakeUserRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "alice@example.com", "password1"},
		{"bad email", "Alice", "not-an-email", "password1"},
		{"short password", "Alice", "alice@example.com", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(ctx, tt.userName, tt.email, tt.password)
			var ve *common.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestLogin_OK(t *testing.T) {
	s := newUserService(newFakeUserRepo())
	ctx := context.Background()

	if _, _, err := s.Register(ctx, "Alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, token, err := s.Login(ctx, "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if user.LastLogin == nil {
		t.Fatal("last login not stamped")
	}
}

func TestLogin_BadPassword(t *testing.T) {
	s := newUserService(newFakeUserRepo())
	ctx := context.Background()

	if _, _, err := s.Register(ctx, "Alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, _, err := s.Login(ctx, "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s := newUserService(newFakeUserRepo())

	_, _, err := s.Login(context.Background(), "ghost@example.com", "password1")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	s := newUserService(repo)
	ctx := context.Background()

	user, _, err := s.Register(ctx, "Alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	repo.byID[user.ID].Active = false

	// Deactivated accounts answer exactly like bad credentials.
	_, _, err = s.Login(ctx, "alice@example.com", "password1")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
}

func TestGetActiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	s := newUserService(repo)
	ctx := context.Background()

	user, _, err := s.Register(ctx, "Alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, err := s.GetActiveUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetActiveUser error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("got %q, want %q", got.ID, user.ID)
	}

	repo.byID[user.ID].Active = false
	if _, err := s.GetActiveUser(ctx, user.ID); !errors.Is(err, common.ErrorInactiveUser) {
		t.Fatalf("want ErrorInactiveUser, got %v", err)
	}

	if _, err := s.GetActiveUser(ctx, "missing"); !errors.Is(err, common.ErrorInactiveUser) {
		t.Fatalf("want ErrorInactiveUser for unknown id, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newUserService(newFakeUserRepo())
	ctx := context.Background()

	user, _, err := s.Register(ctx, "Alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	updated, err := s.UpdateProfile(ctx, user.ID, "Alice B", "avatar.png")
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.Name != "Alice B" || updated.ProfileImage != "avatar.png" {
		t.Fatalf("unexpected profile: %+v", updated)
	}

	if _, err := s.UpdateProfile(ctx, user.ID, "", ""); err == nil {
		t.Fatal("want validation error for empty name")
	}
}
