package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
)

type imageRequest struct {
	Name        string   `json:"name"`
	Data        string   `json:"data"`
	Size        int64    `json:"size"`
	MimeType    string   `json:"mimeType"`
	Public      bool     `json:"public"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

func (req *imageRequest) toModel(userID string) *models.Image {
	return &models.Image{
		UserID:      userID,
		Name:        req.Name,
		Data:        req.Data,
		Size:        req.Size,
		MimeType:    req.MimeType,
		Public:      req.Public,
		Tags:        req.Tags,
		Description: req.Description,
	}
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	page, limit, offset := parsePagination(r)

	// Only the public listing strips the payload; owners get their gallery
	// with data included.
	result, total, err := s.images.List(r.Context(), images.Filter{
		UserID:   user.ID,
		Search:   r.URL.Query().Get("search"),
		WithData: true,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.successList(w, result, page, limit, total)
}

func (s *Server) handleListPublicImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFilter(w, r)
	if !ok {
		return
	}
	page, limit, offset := parsePagination(r)

	result, total, err := s.images.ListPublic(r.Context(), images.Filter{
		UserID: userID,
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.successList(w, result, page, limit, total)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	image, err := s.images.Get(r.Context(), id, user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, image)
}

func (s *Server) handleCreateImage(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	var req imageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	image, err := s.images.Create(r.Context(), req.toModel(user.ID))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusCreated, image)
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	up, err := readUpload(w, r, "file", generalPolicy)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	image := &models.Image{
		UserID:      user.ID,
		Name:        up.Filename,
		MimeType:    up.MimeType,
		Description: up.Form["description"],
	}
	if name := strings.TrimSpace(up.Form["name"]); name != "" {
		image.Name = name
	}
	if v, err := strconv.ParseBool(up.Form["public"]); err == nil {
		image.Public = v
	}
	if tags := up.Form["tags"]; tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				image.Tags = append(image.Tags, t)
			}
		}
	}

	created, err := s.images.Upload(r.Context(), image, up.Data)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "image uploaded", "id", created.ID, "user", user.ID, "size", created.Size)
	s.success(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	var req imageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	image := req.toModel(user.ID)
	image.ID = id

	updated, err := s.images.Update(r.Context(), image)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	id, ok := s.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.images.Delete(r.Context(), id, user.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	s.successMessage(w, http.StatusOK, "image deleted")
}
