package models

import "time"

// Activity categories (closed enum).
const (
	ActivityCategoryProject  = "project"
	ActivityCategoryTutorial = "tutorial"
	ActivityCategoryWorkshop = "workshop"
	ActivityCategoryOther    = "other"
)

// Activity difficulties (closed enum).
const (
	ActivityDifficultyBeginner     = "beginner"
	ActivityDifficultyIntermediate = "intermediate"
	ActivityDifficultyAdvanced     = "advanced"
)

// ActivityCategories lists all valid Activity.Category values.
var ActivityCategories = []string{
	ActivityCategoryProject,
	ActivityCategoryTutorial,
	ActivityCategoryWorkshop,
	ActivityCategoryOther,
}

// ActivityDifficulties lists all valid Activity.Difficulty values.
var ActivityDifficulties = []string{
	ActivityDifficultyBeginner,
	ActivityDifficultyIntermediate,
	ActivityDifficultyAdvanced,
}

// ActivityLink is an external reference; URL must be absolute http(s).
type ActivityLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ActivityDocument is an attached file stored as a base64 data URI.
type ActivityDocument struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Activity is a portfolio-style entry with links, documents, and an optional
// character illustration.
type Activity struct {
	ID               string             `json:"id"`
	UserID           string             `json:"userId"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	CharacterImage   string             `json:"characterImage,omitempty"`
	Links            []ActivityLink     `json:"links"`
	Documents        []ActivityDocument `json:"documents"`
	Category         string             `json:"category"`
	Difficulty       string             `json:"difficulty"`
	EstimatedMinutes int                `json:"estimatedMinutes"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// ValidCategory reports whether c is a known activity category.
func ValidCategory(c string) bool {
	for _, v := range ActivityCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidDifficulty reports whether d is a known activity difficulty.
func ValidDifficulty(d string) bool {
	for _, v := range ActivityDifficulties {
		if v == d {
			return true
		}
	}
	return false
}
