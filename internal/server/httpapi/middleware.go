package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// identityFromContext returns the authenticated user attached by the auth
// middleware, or nil on public routes without a credential.
func identityFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(identityKey).(*models.User)
	return user
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// authenticate resolves the bearer token to a live user record. It writes
// the error response itself and returns nil when the request must not
// proceed.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) *models.User {
	token := bearerToken(r)
	if token == "" {
		s.failMessage(w, r, http.StatusUnauthorized, "access token required")
		return nil
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		// invalid vs expired are surfaced with distinct messages
		s.fail(w, r, err)
		return nil
	}

	user, err := s.users.GetActiveUser(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return nil
	}

	return user
}

// authRequired gates protected routes: it extracts and verifies the bearer
// token, loads the live user record, and attaches the identity to the
// request context.
func (s *Server) authRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.authenticate(w, r)
		if user == nil {
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authOptional attaches an identity when a credential is presented but lets
// anonymous requests through. A presented-but-bad credential still fails, so
// clients never silently lose their authenticated view.
func (s *Server) authOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		user := s.authenticate(w, r)
		if user == nil {
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly is the role guard: a pure predicate over the identity attached
// by authRequired.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := identityFromContext(r.Context())
		if user == nil || user.Role != models.RoleAdmin {
			s.failMessage(w, r, http.StatusForbidden, "insufficient privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer turns panics escaping a handler into a generic 500 envelope
// without leaking internals.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error(r.Context(), "panic recovered",
					"method", r.Method, "url", r.URL.String(), "ip", r.RemoteAddr, "panic", rec)
				s.failMessage(w, r, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
