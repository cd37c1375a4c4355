// Package server contains the HTTP handlers and routing for the blog API.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vueblog/internal/config"
	"vueblog/internal/database"
	"vueblog/internal/middleware"
	"vueblog/internal/models"
	"vueblog/internal/repository"
	"vueblog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config     *config.Config
	db         *gorm.DB
	redis      *redis.Client
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	reviewRepo repository.ReviewRepository
	tokenRepo  repository.TokenRepository
	users      *service.UserService
	posts      *service.PostService
	reviews    *service.ReviewService
	images     *service.ImageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis unavailable, rate limiting fails open", "error", err.Error())
		rdb = nil
	}

	return newServerWithDB(cfg, db, rdb), nil
}

// newServerWithDB wires repositories and services onto an existing
// connection. Tests use it with an in-memory store and no Redis.
func newServerWithDB(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	images := service.NewImageService(cfg)

	return &Server{
		config:     cfg,
		db:         db,
		redis:      rdb,
		userRepo:   userRepo,
		postRepo:   postRepo,
		reviewRepo: reviewRepo,
		tokenRepo:  tokenRepo,
		users:      service.NewUserService(userRepo, tokenRepo),
		posts:      service.NewPostService(postRepo, images),
		reviews:    service.NewReviewService(reviewRepo, postRepo),
		images:     images,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:8080"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Get("/metrics", monitor.New(monitor.Config{Title: "Blog API Metrics"}))

	// Uploaded images are served directly outside production.
	if !s.config.IsProduction() {
		app.Static(s.config.MediaURL, s.config.MediaRoot)
	}

	auth := s.AuthRequired()

	// Public read endpoints
	app.Get("/posts", s.ListPosts)
	app.Get("/posts/:id", s.GetPost)
	app.Get("/related_posts/:id", s.RelatedPosts)
	app.Get("/posts_by_author/:id", s.PostsByAuthor)
	app.Get("/latest_posts", s.LatestPosts)
	app.Get("/featured_posts", s.FeaturedPosts)
	app.Get("/users", s.ListUsers)
	app.Get("/users/:id", s.GetUser)

	// Account endpoints
	app.Post("/user/create", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.RegisterUser)
	app.Post("/api-token-auth", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.ObtainAuthToken)
	app.Put("/password-change", auth, s.ChangePassword)
	app.Get("/profile", auth, s.Profile)

	// Authenticated mutations
	app.Post("/posts", auth, middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	app.Put("/post/:id/edit", auth, s.UpdatePost)
	app.Delete("/post/:id/delete", auth, s.DeletePost)
	app.Get("/my-posts", auth, s.MyPosts)
	app.Post("/review/:id", auth, s.CreateReview)
	app.Delete("/review/:id/delete", auth, s.DeleteReview)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "healthy",
		"checks": fiber.Map{"database": dbStatus},
		"time":   time.Now(),
	})
}

// AuthRequired returns middleware that resolves the opaque bearer token to
// its user. Both "Token <key>" (the original client scheme) and
// "Bearer <key>" are accepted.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication credentials were not provided."))
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		token, err := s.tokenRepo.GetByKey(c.Context(), parts[1])
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if token == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token."))
		}

		c.Locals("userID", token.UserID)
		return c.Next()
	}
}

// NewApp builds the Fiber app with the API's error handler installed.
func (s *Server) NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "Blog API",
		BodyLimit: 10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, err)
			}
			middleware.Logger.Error("unhandled error", "error", err.Error())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("Server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr.Error())
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr.Error())
		}
	}
	middleware.Logger.Info("Server shutdown complete")
	return nil
}
