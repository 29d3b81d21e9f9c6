package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chirper/internal/handler"
	"chirper/internal/httputil"
	authmw "chirper/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	FeedHandler    *handler.FeedHandler
	PostHandler    *handler.PostHandler
	JWTSecret      string
	LoginPath      string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public profile and feed reads with optional authentication for
	// viewer personalization
	r.Route("/users/{handle}", func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))
		r.Get("/", cfg.ProfileHandler.GetPublicProfile)
		r.Get("/posts", cfg.FeedHandler.GetPosts)
		r.Get("/replies", cfg.FeedHandler.GetReplies)
		r.Get("/likes", cfg.FeedHandler.GetLikes)
	})

	// Public post read with optional authentication
	r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/posts/{id}", cfg.PostHandler.GetByID)

	// Own-profile surface: browser-facing, so a missing session means
	// a redirect to login rather than a 401 payload
	r.Group(func(r chi.Router) {
		r.Use(authmw.RedirectAuthMiddleware(cfg.JWTSecret, cfg.LoginPath))

		r.Get("/me/profile", cfg.ProfileHandler.GetEditableProfile)
		r.Patch("/me/profile", cfg.ProfileHandler.UpdateProfile)
		r.Put("/me/profile/avatar", cfg.ProfileHandler.UpdateAvatar)
	})

	// Protected API routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Post("/posts/{id}/like", cfg.PostHandler.Like)
		r.Delete("/posts/{id}/like", cfg.PostHandler.Unlike)
	})

	return r
}
