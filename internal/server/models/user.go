// Package models contains the persistent domain entities of the blogging
// platform. Structs here are shared between repositories, services, and the
// HTTP layer; JSON tags define the client-facing representation.
package models

import "time"

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account record. PasswordHash is a bcrypt hash (salted per
// record by bcrypt itself) and is never serialized to clients.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Active       bool       `json:"active"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// PublicUser is the identity projection attached to authenticated requests
// and returned by profile endpoints.
type PublicUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Public strips credential and state fields from a User.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		ProfileImage: u.ProfileImage,
	}
}
