// Package server contains the HTTP handlers for the social API.
package server

import (
	"context"
	"fmt"
	"time"

	_ "socialmedia/docs" // swagger docs
	"socialmedia/internal/cache"
	"socialmedia/internal/config"
	"socialmedia/internal/database"
	"socialmedia/internal/featureflags"
	"socialmedia/internal/middleware"
	"socialmedia/internal/models"
	"socialmedia/internal/repository"
	"socialmedia/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	postRepo       repository.PostRepository
	groupRepo      repository.GroupRepository
	featureFlags   *featureflags.Set
	socialService  *service.SocialService
}

// NewServer connects to the database and Redis and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case caching and per-route limits are off.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	flags, invalid := featureflags.Parse(cfg.FeatureFlags)
	if len(invalid) > 0 {
		middleware.Logger.Warn("ignoring invalid feature flags", "entries", invalid)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "socialmedia-api"
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		userRepo:       repository.NewUserRepository(db),
		profileRepo:    repository.NewProfileRepository(db),
		postRepo:       repository.NewPostRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		featureFlags:   flags,
	}
	s.socialService = service.NewSocialService(s.userRepo, s.profileRepo, s.postRepo, s.groupRepo, flags)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// copies request and trace IDs into the request context
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	perMinute := s.config.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 100
	}
	app.Use(limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	social := app.Group("/social")

	users := social.Group("/users")
	users.Get("/", s.GetAllUsers)
	users.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "save_user"), s.SaveUser)
	// specific /:id/:resource routes before the generic /:id routes
	users.Put("/:id/profile", s.SetProfile)
	users.Post("/:id/posts", middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	users.Get("/:id", s.GetUser)
	users.Delete("/:id", s.DeleteUser)

	social.Get("/posts", s.GetPosts)

	groups := social.Group("/groups")
	groups.Get("/", s.GetGroups)
	groups.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_group"), s.CreateGroup)
	groups.Put("/:id/members/:userId", s.JoinGroup)
	groups.Delete("/:id/members/:userId", s.LeaveGroup)
}

// Start builds the Fiber app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.newApp()
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Social API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, err)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown stops the HTTP server and closes the database and Redis clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.db != nil {
		if err := database.Close(s.db); err != nil {
			middleware.Logger.Error("error closing database", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}

func (s *Server) socialSvc() *service.SocialService {
	if s.socialService == nil {
		s.socialService = service.NewSocialService(s.userRepo, s.profileRepo, s.postRepo, s.groupRepo, s.featureFlags)
	}
	return s.socialService
}
