package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	http *http.Server
}

// New wires the database, services and handlers into a runnable server.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(db); err != nil {
		return nil, err
	}

	// Redis only backs the rate limiter; run without it when unavailable.
	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit",
		})
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg.S3Bucket)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db, service.NewS3ImageStore(s3Config))
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)
	catalogService := service.NewCatalogService(db)

	engine := router.SetupRouter(
		db,
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, followService),
		api.NewRecipeHandler(
			recipeService,
			service.NewFavoriteSet(db),
			service.NewShoppingCartSet(db),
			service.NewShoppingListService(db),
		),
		api.NewCatalogHandler(catalogService),
		authService,
		limiter,
		cfg.AllowedOrigins,
	)

	return &Server{
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
