package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
)

type postRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Date       string   `json:"date"`
	CoverImage string   `json:"coverImage"`
	Published  *bool    `json:"published"`
	Tags       []string `json:"tags"`
}

func (req *postRequest) toModel(userID string) *models.Post {
	published := true
	if req.Published != nil {
		published = *req.Published
	}
	return &models.Post{
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		DateLabel:  req.Date,
		CoverImage: req.CoverImage,
		Published:  published,
		Tags:       req.Tags,
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	// Unpublished drafts are visible only to their author.
	identity := identityFromContext(r.Context())
	publishedOnly := identity == nil || identity.ID != userID || userID == ""

	result, total, err := s.posts.List(r.Context(), posts.Filter{
		UserID:        userID,
		Search:        r.URL.Query().Get("search"),
		PublishedOnly: publishedOnly,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.successList(w, result, page, limit, total)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	post, err := s.posts.Create(r.Context(), req.toModel(user.ID))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "post created", "id", post.ID, "user", user.ID)
	s.success(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	post := req.toModel(user.ID)
	post.ID = id

	// An omitted published field keeps the stored value rather than the
	// create-time default, so updating a draft does not publish it.
	updated, err := s.posts.Update(r.Context(), post, req.Published)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.posts.Delete(r.Context(), id, user.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	s.successMessage(w, http.StatusOK, "post deleted")
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	post, err := s.posts.ToggleLike(r.Context(), id, user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, post)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	comments, err := s.posts.ListComments(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	comment, err := s.posts.AddComment(r.Context(), id, user, req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusCreated, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := s.idParam(w, r, "commentID")
	if !ok {
		return
	}

	if err := s.posts.DeleteComment(r.Context(), id, commentID, user.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	s.successMessage(w, http.StatusOK, "comment deleted")
}
