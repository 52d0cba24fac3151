package models

import "time"

// Like is one user's like on a post. A post holds at most one Like per user.
type Like struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Comment is a reader comment attached to a post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Post is a blog entry. Views is monotonic and incremented on every
// read-by-id, with no per-viewer deduplication.
type Post struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	DateLabel  string    `json:"date,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	Published  bool      `json:"published"`
	Tags       []string  `json:"tags"`
	Views      int64     `json:"views"`
	Likes      []Like    `json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
