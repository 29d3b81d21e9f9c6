package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"chirper/internal/config"
	"chirper/internal/database"
	"chirper/internal/handler"
	"chirper/internal/repository"
	"chirper/internal/service"
)

// Run wires the full dependency graph and serves HTTP until the
// process exits.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	postRepo := repository.NewPostRepository(db)
	followRepo := repository.NewFollowRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to init media service: %w", err)
	}
	userService := service.NewUserService(userRepo, profileRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	profileService := service.NewProfileService(profileRepo, userRepo, followRepo)
	enricher := service.NewEnricher(postRepo)
	feedService := service.NewFeedService(userRepo, postRepo, enricher)
	postService := service.NewPostService(postRepo, enricher)

	// Handlers
	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, authService, mediaService, cfg),
		ProfileHandler: handler.NewProfileHandler(profileService, mediaService, cfg),
		FeedHandler:    handler.NewFeedHandler(feedService),
		PostHandler:    handler.NewPostHandler(postService),
		JWTSecret:      cfg.JWTSecret,
		LoginPath:      cfg.LoginPath,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
