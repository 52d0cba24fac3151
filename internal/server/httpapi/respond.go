package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// pagination is attached to list responses.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type successEnvelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Token      string      `json:"token,omitempty"`
	User       any         `json:"user,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success   bool     `json:"success"`
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	Timestamp string   `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) success(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func (s *Server) successMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, successEnvelope{Success: true, Message: message})
}

func (s *Server) successList(w http.ResponseWriter, data any, page, limit int, total int64) {
	writeJSON(w, http.StatusOK, successEnvelope{
		Success:    true,
		Data:       data,
		Pagination: &pagination{Page: page, Limit: limit, Total: total},
	})
}

func (s *Server) failMessage(w http.ResponseWriter, r *http.Request, status int, message string, details ...string) {
	s.logger.Warn(r.Context(), "request failed",
		"method", r.Method, "url", r.URL.String(), "ip", r.RemoteAddr, "status", status, "error", message)
	writeJSON(w, status, errorEnvelope{
		Error:     message,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// fail maps a service error to the response taxonomy. Anything unrecognized
// is a 500 whose message is elided in production builds.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		s.failMessage(w, r, http.StatusBadRequest, "validation failed", validationErr.Details...)
		return
	}

	var uploadErr *uploadError
	if errors.As(err, &uploadErr) {
		s.failMessage(w, r, http.StatusBadRequest, uploadErr.Message)
		return
	}

	switch {
	case errors.Is(err, common.ErrorConflict):
		s.failMessage(w, r, http.StatusBadRequest, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		s.failMessage(w, r, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorInactiveUser):
		s.failMessage(w, r, http.StatusUnauthorized, "invalid or inactive user")
	case errors.Is(err, common.ErrTokenExpired):
		s.failMessage(w, r, http.StatusForbidden, "token expired")
	case errors.Is(err, common.ErrInvalidToken):
		s.failMessage(w, r, http.StatusForbidden, "invalid token")
	case errors.Is(err, common.ErrorForbidden):
		s.failMessage(w, r, http.StatusForbidden, "insufficient privileges")
	case errors.Is(err, common.ErrorNotFound):
		s.failMessage(w, r, http.StatusNotFound, "not found")
	default:
		s.logger.Error(r.Context(), "internal error",
			"method", r.Method, "url", r.URL.String(), "ip", r.RemoteAddr, "error", err.Error())
		msg := "internal server error"
		if !s.cfg.Production {
			msg = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{
			Error:     msg,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// maxJSONBody bounds JSON request bodies. Sized so the largest legitimate
// data-URI image create (10MB payload, base64-encoded) still fits.
const maxJSONBody = 15 << 20

// decodeJSON reads a request body DTO, rejecting unknown fields and
// oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return common.NewValidationError("request body too large")
		}
		return common.NewValidationError("invalid request body")
	}
	return nil
}
