package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
)

const (
	maxTitleLength      = 200
	minContentLength    = 10
	maxContentLength    = 50000
	maxCommentLength    = 1000
	maxTagCount         = 20
	maxCoverImageLength = 2048
)

// PostService implements blog post CRUD, the like toggle, view counting, and
// post comments.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewPostService constructs a PostService.
func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

func validatePost(post *models.Post) error {
	details := []string{}
	if strings.TrimSpace(post.Title) == "" {
		details = append(details, "title is required")
	}
	if len(post.Title) > maxTitleLength {
		details = append(details, fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if len(post.Content) < minContentLength {
		details = append(details, fmt.Sprintf("content must be at least %d characters", minContentLength))
	}
	if len(post.Content) > maxContentLength {
		details = append(details, fmt.Sprintf("content must be at most %d characters", maxContentLength))
	}
	if len(post.CoverImage) > maxCoverImageLength {
		details = append(details, "cover image URL is too long")
	}
	if len(post.Tags) > maxTagCount {
		details = append(details, fmt.Sprintf("at most %d tags are allowed", maxTagCount))
	}
	if len(details) > 0 {
		return common.NewValidationError(details...)
	}
	return nil
}

// Create validates and stores a new post owned by post.UserID.
func (s *PostService) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := validatePost(post); err != nil {
		return nil, err
	}

	repo := s.repomanager.Posts(s.db)
	created, err := repo.Create(ctx, post)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// Get returns the post by id, incrementing its view counter as a side
// effect of the read. Every read counts; there is no per-viewer dedup.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	repo := s.repomanager.Posts(s.db)
	post, err := repo.GetByIDIncrementingViews(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return post, nil
}

// List returns a filtered page of posts with the total count.
func (s *PostService) List(ctx context.Context, f posts.Filter) ([]*models.Post, int64, error) {
	repo := s.repomanager.Posts(s.db)
	result, total, err := repo.List(ctx, f)
	if err != nil {
		return nil, 0, common.ErrorInternal
	}
	return result, total, nil
}

// Update validates and rewrites an existing post. A post owned by someone
// else reads as absent. When published is nil the stored flag is kept, so a
// draft update without the field does not publish it.
func (s *PostService) Update(ctx context.Context, post *models.Post, published *bool) (*models.Post, error) {
	repo := s.repomanager.Posts(s.db)

	if published != nil {
		post.Published = *published
	} else {
		stored, err := repo.GetByID(ctx, post.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorNotFound
			}
			return nil, common.ErrorInternal
		}
		if stored.UserID != post.UserID {
			return nil, common.ErrorNotFound
		}
		post.Published = stored.Published
	}

	if err := validatePost(post); err != nil {
		return nil, err
	}

	updated, err := repo.Update(ctx, post)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return updated, nil
}

// Delete removes the caller's post.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	repo := s.repomanager.Posts(s.db)
	if err := repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

// ToggleLike removes the caller's like when present, otherwise adds one with
// a timestamp. The read-then-write runs in a transaction; concurrent toggles
// by the same user resolve last-write-wins at the row level.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	if _, err := s.repomanager.Posts(s.db).GetByID(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Posts(tx)
		liked, err := repoTx.HasLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if liked {
			return repoTx.RemoveLike(ctx, postID, userID)
		}
		return repoTx.AddLike(ctx, postID, userID)
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return post, nil
}

// AddComment attaches a comment by any authenticated user to an existing post.
func (s *PostService) AddComment(ctx context.Context, postID string, author *models.User, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("comment content is required")
	}
	if len(content) > maxCommentLength {
		return nil, common.NewValidationError(fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}

	if _, err := s.repomanager.Posts(s.db).GetByID(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	comment := &models.Comment{
		PostID:     postID,
		UserID:     author.ID,
		AuthorName: author.Name,
		Content:    strings.TrimSpace(content),
	}

	created, err := s.repomanager.Comments(s.db).Create(ctx, comment)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return created, nil
}

// ListComments returns all comments of an existing post, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.repomanager.Posts(s.db).GetByID(ctx, postID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	result, err := s.repomanager.Comments(s.db).ListByPost(ctx, postID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// DeleteComment removes a comment. Allowed for the comment author and the
// post owner; for anyone else the comment reads as absent.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, callerID string) error {
	comment, err := s.repomanager.Comments(s.db).GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if comment.PostID != postID {
		return common.ErrorNotFound
	}

	if comment.UserID != callerID {
		post, err := s.repomanager.Posts(s.db).GetByID(ctx, postID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return common.ErrorInternal
		}
		if post.UserID != callerID {
			return common.ErrorNotFound
		}
	}

	if err := s.repomanager.Comments(s.db).Delete(ctx, commentID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}
