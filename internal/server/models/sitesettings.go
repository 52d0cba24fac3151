package models

import "time"

// Defaults used when a user has not customized their site yet.
const (
	DefaultHeroTitle       = "Welcome to my blog"
	DefaultHeroDescription = "Thoughts, projects and experiments."
)

// SiteSettings holds per-user site customization, one row per user, created
// lazily with defaults on first authenticated access.
type SiteSettings struct {
	UserID          string    `json:"userId"`
	HeroTitle       string    `json:"heroTitle"`
	HeroDescription string    `json:"heroDescription"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DefaultSiteSettings returns the hard-coded defaults for a user.
func DefaultSiteSettings(userID string) *SiteSettings {
	return &SiteSettings{
		UserID:          userID,
		HeroTitle:       DefaultHeroTitle,
		HeroDescription: DefaultHeroDescription,
	}
}
