package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/activities"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
)

type activityRequest struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Links            []models.ActivityLink `json:"links"`
	Category         string                `json:"category"`
	Difficulty       string                `json:"difficulty"`
	EstimatedMinutes int                   `json:"estimatedMinutes"`
}

func (req *activityRequest) toModel(userID string) *models.Activity {
	return &models.Activity{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		Links:            req.Links,
		Category:         req.Category,
		Difficulty:       req.Difficulty,
		EstimatedMinutes: req.EstimatedMinutes,
	}
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	result, total, err := s.activities.List(r.Context(), activities.Filter{
		UserID:   userID,
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.successList(w, result, page, limit, total)
}

func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	activity, err := s.activities.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, activity)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	activity, err := s.activities.Create(r.Context(), req.toModel(user.ID))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "activity created", "id", activity.ID, "user", user.ID)
	s.success(w, http.StatusCreated, activity)
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req activityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	// Attachments are managed through their own endpoints; carry the stored
	// ones over unchanged.
	current, err := s.activities.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	activity := req.toModel(user.ID)
	activity.ID = id
	activity.CharacterImage = current.CharacterImage
	activity.Documents = current.Documents

	updated, err := s.activities.Update(r.Context(), activity)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.activities.Delete(r.Context(), id, user.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	s.successMessage(w, http.StatusOK, "activity deleted")
}

func (s *Server) handleUploadActivityDocument(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	up, err := readUpload(w, r, "document", documentPolicy)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	doc := models.ActivityDocument{
		Name: up.Filename,
		URL:  services.DataURI(up.MimeType, up.Data),
		Type: up.MimeType,
		Size: int64(len(up.Data)),
	}

	activity, err := s.activities.AddDocument(r.Context(), id, user.ID, doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, activity)
}

func (s *Server) handleUploadActivityImage(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	up, err := readUpload(w, r, "image", characterImagePolicy)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	activity, err := s.activities.SetCharacterImage(r.Context(), id, user.ID, services.DataURI(up.MimeType, up.Data))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, activity)
}

func (s *Server) handleDeleteActivityDocument(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	index, ok := s.indexParam(w, r, "index")
	if !ok {
		return
	}

	activity, err := s.activities.RemoveDocument(r.Context(), id, user.ID, index)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, activity)
}

func (s *Server) handleDeleteActivityLink(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}
	index, ok := s.indexParam(w, r, "index")
	if !ok {
		return
	}

	activity, err := s.activities.RemoveLink(r.Context(), id, user.ID, index)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, activity)
}
