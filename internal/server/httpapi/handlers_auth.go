package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			s.failMessage(w, r, http.StatusBadRequest, "email already registered")
			return
		}
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "email", user.Email, "id", user.ID)
	writeJSON(w, http.StatusCreated, successEnvelope{
		Success: true,
		Message: "registration successful",
		Token:   token,
		User:    user.Public(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user logged in", "email", user.Email, "id", user.ID)
	writeJSON(w, http.StatusOK, successEnvelope{
		Success: true,
		Token:   token,
		User:    user.Public(),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())
	s.success(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), user.ID, req.Name, req.ProfileImage)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, updated)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := parsePagination(r)

	users, total, err := s.users.List(r.Context(), limit, offset)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.successList(w, users, page, limit, total)
}
