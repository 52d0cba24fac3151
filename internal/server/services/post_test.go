package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
)

func newPostService(t *testing.T, repo *fakePostRepo, comments *fakeCommentRepo) (*PostService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if comments == nil {
		comments = newFakeCommentRepo()
	}
	return NewPostService(db, &fakeRepoManager{posts: repo, comments: comments}), mock
}

func testPost(userID string) *models.Post {
	return &models.Post{
		UserID:    userID,
		Title:     "First post",
		Content:   "long enough content",
		Published: true,
	}
}

func TestPostCreate_OK(t *testing.T) {
	s, _ := newPostService(t, newFakePostRepo(), nil)

	post, err := s.Create(context.Background(), testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if post.ID == "" {
		t.Fatal("no id assigned")
	}
	if post.Views != 0 {
		t.Fatalf("fresh post has views %d", post.Views)
	}
}

func TestPostCreate_Validation(t *testing.T) {
	s, _ := newPostService(t, newFakePostRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		post *models.Post
	}{
		{"empty title", &models.Post{UserID: "u1", Content: "long enough content"}},
		{"short content", &models.Post{UserID: "u1", Title: "t", Content: "short"}},
		{"too long title", &models.Post{UserID: "u1", Title: strings.Repeat("x", 201), Content: "long enough content"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.post)
			var ve *common.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestPostGet_IncrementsViews(t *testing.T) {
	repo := newFakePostRepo()
	s, _ := newPostService(t, repo, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	for want := int64(1); want <= 3; want++ {
		got, err := s.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if got.Views != want {
			t.Fatalf("views = %d, want %d", got.Views, want)
		}
	}
}

func TestPostGet_NotFound(t *testing.T) {
	s, _ := newPostService(t, newFakePostRepo(), nil)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostUpdate_ForeignPost(t *testing.T) {
	repo := newFakePostRepo()
	s, _ := newPostService(t, repo, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Someone else's post must read as absent, not forbidden.
	foreign := testPost("u2")
	foreign.ID = created.ID
	published := true
	if _, err := s.Update(ctx, foreign, &published); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, foreign, nil); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("nil published: want ErrorNotFound, got %v", err)
	}
}

func TestPostUpdate_KeepsStoredPublishedFlag(t *testing.T) {
	repo := newFakePostRepo()
	s, _ := newPostService(t, repo, nil)
	ctx := context.Background()

	draft := testPost("u1")
	draft.Published = false
	created, err := s.Create(ctx, draft)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Updating without a published value must not publish the draft.
	edit := testPost("u1")
	edit.ID = created.ID
	edit.Title = "Edited draft"
	updated, err := s.Update(ctx, edit, nil)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Published {
		t.Fatal("draft was published by an update that omitted the flag")
	}

	// An explicit value still wins.
	published := true
	updated, err = s.Update(ctx, edit, &published)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.Published {
		t.Fatal("explicit published=true was ignored")
	}
}

func TestPostDelete(t *testing.T) {
	repo := newFakePostRepo()
	s, _ := newPostService(t, repo, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if err := s.Delete(ctx, created.ID, "u2"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign delete: want ErrorNotFound, got %v", err)
	}
	if err := s.Delete(ctx, created.ID, "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := s.Delete(ctx, created.ID, "u1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("second delete: want ErrorNotFound, got %v", err)
	}
}

func TestToggleLike_AddThenRemove(t *testing.T) {
	repo := newFakePostRepo()
	s, mock := newPostService(t, repo, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	post, err := s.ToggleLike(ctx, created.ID, "u2")
	if err != nil {
		t.Fatalf("first toggle error: %v", err)
	}
	if len(post.Likes) != 1 {
		t.Fatalf("likes after first toggle = %d, want 1", len(post.Likes))
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	post, err = s.ToggleLike(ctx, created.ID, "u2")
	if err != nil {
		t.Fatalf("second toggle error: %v", err)
	}
	if len(post.Likes) != 0 {
		t.Fatalf("likes after second toggle = %d, want 0", len(post.Likes))
	}
}

func TestToggleLike_UnknownPost(t *testing.T) {
	s, _ := newPostService(t, newFakePostRepo(), nil)

	_, err := s.ToggleLike(context.Background(), "missing", "u1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestPostList_Filter(t *testing.T) {
	repo := newFakePostRepo()
	s, _ := newPostService(t, repo, nil)
	ctx := context.Background()

	if _, err := s.Create(ctx, testPost("u1")); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	draft := testPost("u1")
	draft.Published = false
	if _, err := s.Create(ctx, draft); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, total, err := s.List(ctx, posts.Filter{UserID: "u1", PublishedOnly: true, Limit: 10})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 1 {
		t.Fatalf("published total = %d, want 1", total)
	}

	_, total, err = s.List(ctx, posts.Filter{UserID: "u1", Limit: 10})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 2 {
		t.Fatalf("owner total = %d, want 2", total)
	}
}

func TestComments_Lifecycle(t *testing.T) {
	repo := newFakePostRepo()
	commentRepo := newFakeCommentRepo()
	s, _ := newPostService(t, repo, commentRepo)
	ctx := context.Background()

	created, err := s.Create(ctx, testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	author := &models.User{ID: "u2", Name: "Bob"}
	comment, err := s.AddComment(ctx, created.ID, author, "  nice post  ")
	if err != nil {
		t.Fatalf("AddComment error: %v", err)
	}
	if comment.Content != "nice post" {
		t.Fatalf("content not trimmed: %q", comment.Content)
	}
	if comment.AuthorName != "Bob" {
		t.Fatalf("author name %q", comment.AuthorName)
	}

	list, err := s.ListComments(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListComments error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("comment count = %d, want 1", len(list))
	}

	// A stranger cannot delete it, the post owner can.
	if err := s.DeleteComment(ctx, created.ID, comment.ID, "u3"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("stranger delete: want ErrorNotFound, got %v", err)
	}
	if err := s.DeleteComment(ctx, created.ID, comment.ID, "u1"); err != nil {
		t.Fatalf("owner delete error: %v", err)
	}
}

func TestAddComment_Validation(t *testing.T) {
	repo := newFakePostRepo()
	s, _ := newPostService(t, repo, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, testPost("u1"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	author := &models.User{ID: "u2", Name: "Bob"}
	if _, err := s.AddComment(ctx, created.ID, author, "   "); err == nil {
		t.Fatal("want validation error for blank comment")
	}
	if _, err := s.AddComment(ctx, created.ID, author, strings.Repeat("x", 1001)); err == nil {
		t.Fatal("want validation error for oversized comment")
	}
	if _, err := s.AddComment(ctx, "missing", author, "hello"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound for unknown post, got %v", err)
	}
}
