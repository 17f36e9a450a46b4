// Package server contains the HTTP handlers for the StudyOverflow API.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"studyoverflow/internal/cache"
	"studyoverflow/internal/config"
	"studyoverflow/internal/database"
	"studyoverflow/internal/featureflags"
	"studyoverflow/internal/middleware"
	"studyoverflow/internal/models"
	"studyoverflow/internal/repository"
	"studyoverflow/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	verifier       *middleware.TokenVerifier
	featureFlags   *featureflags.Manager

	postService         *service.PostService
	commentService      *service.CommentService
	voteService         *service.VoteService
	catalogService      *service.CatalogService
	notificationService *service.NotificationService
	chatService         *service.ChatService
}

// NewServer connects to the database and Redis described by cfg and builds a Server.
// Schema management is left to the bootstrap layer.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, which disables caching and Redis-backed rate limits.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("studyoverflow-api"),
		verifier:       middleware.NewTokenVerifier(cfg.JWTSecret),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	views := service.NewViewComposer(userRepo, catalogRepo, voteRepo)
	s.notificationService = service.NewNotificationService(notificationRepo, s.featureFlags)
	s.postService = service.NewPostService(postRepo, catalogRepo, views)
	s.commentService = service.NewCommentService(commentRepo, postRepo, views, s.notificationService)
	s.voteService = service.NewVoteService(voteRepo)
	s.catalogService = service.NewCatalogService(catalogRepo)
	s.chatService = service.NewChatService(chatRepo, views, s.notificationService)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Propagate request and user IDs into the request context for logging.
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

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
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
	auth := middleware.AuthRequired(s.verifier)
	optional := middleware.OptionalAuth(s.verifier)

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	universities := api.Group("/universities")
	universities.Get("/", s.GetUniversities)
	universities.Get("/:id", s.GetUniversity)

	courses := api.Group("/courses")
	courses.Get("/", s.GetCourses)
	courses.Get("/:id", s.GetCourse)

	posts := api.Group("/posts")
	posts.Get("/", optional, s.GetPosts)
	posts.Post("/", auth, middleware.RateLimit(s.redis, 5, 10*time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id route
	posts.Get("/:id/comments", optional, s.GetComments)
	posts.Post("/:id/comments", auth, middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Post("/:id/vote", auth, middleware.RateLimit(s.redis, 60, time.Minute, "vote"), s.VotePost)
	posts.Get("/:id", optional, s.GetPost)

	comments := api.Group("/comments")
	comments.Post("/:id/vote", auth, middleware.RateLimit(s.redis, 60, time.Minute, "vote"), s.VoteComment)
	comments.Post("/:id/accept", auth, s.AcceptAnswer)

	notifications := api.Group("/notifications", auth)
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread-count", s.GetUnreadCount)
	notifications.Post("/read", s.MarkNotificationsRead)

	chats := api.Group("/chats", auth)
	chats.Get("/", s.GetChats)
	chats.Post("/", middleware.RateLimit(s.redis, 10, time.Minute, "create_chat"), s.CreateChat)
	chats.Get("/:id/messages", s.GetChatMessages)
	chats.Post("/:id/messages", middleware.RateLimit(s.redis, 30, time.Minute, "chat_message"), s.SendChatMessage)
}

// App builds the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}
	app := fiber.New(fiber.Config{
		AppName: "StudyOverflow API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// LivenessCheck reports that the process is up
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether dependencies are reachable. Redis is optional: without
// it the API serves uncached reads.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
