package httpapi

import "net/http"

type siteSettingsRequest struct {
	HeroTitle       string `json:"heroTitle"`
	HeroDescription string `json:"heroDescription"`
}

func (s *Server) handleGetSiteSettings(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	settings, err := s.siteSettings.Get(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, settings)
}

func (s *Server) handleGetPublicSiteSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userIDFilter(w, r)
	if !ok {
		return
	}
	if userID == "" {
		s.failMessage(w, r, http.StatusBadRequest, "userId is required")
		return
	}

	settings, err := s.siteSettings.GetPublic(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSiteSettings(w http.ResponseWriter, r *http.Request) {
	user := identityFromContext(r.Context())

	var req siteSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	settings, err := s.siteSettings.Update(r.Context(), user.ID, req.HeroTitle, req.HeroDescription)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.success(w, http.StatusOK, settings)
}
