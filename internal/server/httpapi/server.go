// Package httpapi exposes the platform over an HTTP JSON API: a chi router
// with a security/compression/rate-limit middleware chain, bearer-token
// authentication, per-endpoint upload policies, and a uniform response
// envelope.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/activities"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/images"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
)

// Service interfaces consumed by the handlers. The concrete implementations
// live in internal/server/services; tests substitute fakes.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GetActiveUser(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, profileImage string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, int64, error)
}

type PostService interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, f posts.Filter) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post, published *bool) (*models.Post, error)
	Delete(ctx context.Context, id, userID string) error
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	AddComment(ctx context.Context, postID string, author *models.User, content string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, callerID string) error
}

type ActivityService interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	Get(ctx context.Context, id string) (*models.Activity, error)
	List(ctx context.Context, f activities.Filter) ([]*models.Activity, int64, error)
	Update(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	Delete(ctx context.Context, id, userID string) error
	AddDocument(ctx context.Context, id, userID string, doc models.ActivityDocument) (*models.Activity, error)
	RemoveDocument(ctx context.Context, id, userID string, index int) (*models.Activity, error)
	RemoveLink(ctx context.Context, id, userID string, index int) (*models.Activity, error)
	SetCharacterImage(ctx context.Context, id, userID, dataURI string) (*models.Activity, error)
}

type ImageService interface {
	Upload(ctx context.Context, image *models.Image, data []byte) (*models.Image, error)
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	Get(ctx context.Context, id, callerID string) (*models.Image, error)
	List(ctx context.Context, f images.Filter) ([]*models.Image, int64, error)
	ListPublic(ctx context.Context, f images.Filter) ([]*models.Image, int64, error)
	Update(ctx context.Context, image *models.Image) (*models.Image, error)
	Delete(ctx context.Context, id, userID string) error
}

type SiteSettingsService interface {
	Get(ctx context.Context, userID string) (*models.SiteSettings, error)
	GetPublic(ctx context.Context, userID string) (*models.SiteSettings, error)
	Update(ctx context.Context, userID, heroTitle, heroDescription string) (*models.SiteSettings, error)
}

// Server is the HTTP transport of the platform.
type Server struct {
	router       chi.Router
	logger       logging.Logger
	cfg          *config.Config
	jwtSecret    []byte
	users        UserService
	posts        PostService
	activities   ActivityService
	images       ImageService
	siteSettings SiteSettingsService
}

// NewServer wires the middleware chain and the route table.
func NewServer(cfg *config.Config, logger logging.Logger,
	users UserService, posts PostService, activities ActivityService,
	images ImageService, siteSettings SiteSettingsService) *Server {

	s := &Server{
		router:       chi.NewRouter(),
		logger:       logger,
		cfg:          cfg,
		jwtSecret:    []byte(cfg.SecretKey),
		users:        users,
		posts:        posts,
		activities:   activities,
		images:       images,
		siteSettings: siteSettings,
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(s.recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Throttle(100))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.CORSOrigin),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.routes()

	return s
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, p := range strings.Split(raw, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.With(s.authRequired).Get("/auth/profile", s.handleGetProfile)
		r.With(s.authRequired).Put("/auth/profile", s.handleUpdateProfile)

		r.With(s.authRequired, s.adminOnly).Get("/users", s.handleListUsers)

		r.Route("/posts", func(r chi.Router) {
			r.With(s.authOptional).Get("/", s.handleListPosts)
			r.With(s.authRequired).Post("/", s.handleCreatePost)
			r.Get("/{id}", s.handleGetPost)
			r.With(s.authRequired).Put("/{id}", s.handleUpdatePost)
			r.With(s.authRequired).Delete("/{id}", s.handleDeletePost)
			r.With(s.authRequired).Post("/{id}/like", s.handleToggleLike)
			r.Get("/{id}/comments", s.handleListComments)
			r.With(s.authRequired).Post("/{id}/comments", s.handleAddComment)
			r.With(s.authRequired).Delete("/{id}/comments/{commentID}", s.handleDeleteComment)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", s.handleListActivities)
			r.With(s.authRequired).Post("/", s.handleCreateActivity)
			r.Get("/{id}", s.handleGetActivity)
			r.With(s.authRequired).Put("/{id}", s.handleUpdateActivity)
			r.With(s.authRequired).Delete("/{id}", s.handleDeleteActivity)
			r.With(s.authRequired).Post("/{id}/upload-document", s.handleUploadActivityDocument)
			r.With(s.authRequired).Post("/{id}/upload-image", s.handleUploadActivityImage)
			r.With(s.authRequired).Delete("/{id}/documents/{index}", s.handleDeleteActivityDocument)
			r.With(s.authRequired).Delete("/{id}/links/{index}", s.handleDeleteActivityLink)
		})

		r.Route("/images", func(r chi.Router) {
			r.With(s.authRequired).Get("/", s.handleListImages)
			r.With(s.authRequired).Post("/", s.handleCreateImage)
			r.Get("/public", s.handleListPublicImages)
			r.With(s.authRequired).Post("/upload", s.handleUploadImage)
			r.With(s.authRequired).Get("/{id}", s.handleGetImage)
			r.With(s.authRequired).Put("/{id}", s.handleUpdateImage)
			r.With(s.authRequired).Delete("/{id}", s.handleDeleteImage)
		})

		r.With(s.authRequired).Get("/site-settings", s.handleGetSiteSettings)
		r.With(s.authRequired).Put("/site-settings", s.handleUpdateSiteSettings)
		r.Get("/site-settings/public", s.handleGetPublicSiteSettings)
	})
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.cfg.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.success(w, http.StatusOK, map[string]string{"status": "ok"})
}
