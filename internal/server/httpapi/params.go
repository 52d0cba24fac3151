package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePagination reads the page/limit query parameters with defaults and a
// ceiling on limit.
func parsePagination(r *http.Request) (page, limit, offset int) {
	page = 1
	limit = defaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit, (page - 1) * limit
}

// idParam validates the id-shaped URL parameter before any query executes.
// On failure it writes the 400 response and returns ok=false.
func (s *Server) idParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := chi.URLParam(r, name)
	if _, err := uuid.Parse(id); err != nil {
		s.failMessage(w, r, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return id, true
}

// userIDFilter validates the optional userId query filter. An empty value is
// fine; a malformed one fails fast.
func (s *Server) userIDFilter(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		return "", true
	}
	if _, err := uuid.Parse(userID); err != nil {
		s.failMessage(w, r, http.StatusBadRequest, "invalid userId")
		return "", false
	}
	return userID, true
}

// indexParam parses a non-negative positional index URL parameter.
func (s *Server) indexParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || index < 0 {
		s.failMessage(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return index, true
}
