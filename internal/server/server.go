// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	_ "sportsync/docs" // swagger docs
	"sportsync/internal/bootstrap"
	"sportsync/internal/config"
	"sportsync/internal/featureflags"
	"sportsync/internal/imagehost"
	"sportsync/internal/middleware"
	"sportsync/internal/models"
	"sportsync/internal/notifications"
	"sportsync/internal/repository"
	"sportsync/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	wsTicketPrefix  = "ws_ticket:"
	wsTicketTTL     = 30 * time.Second
	blacklistPrefix = "blacklist:"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo         repository.UserRepository
	postRepo         repository.PostRepository
	matchRepo        repository.MatchPostRepository
	notificationRepo repository.NotificationRepository
	chatRepo         repository.ChatRepository

	notifier     *notifications.Notifier
	hub          *notifications.Hub
	featureFlags *featureflags.Manager

	userService         *service.UserService
	postService         *service.PostService
	matchPostService    *service.MatchPostService
	notificationService *service.NotificationService
	chatService         *service.ChatService
}

// NewServer connects the database, Redis and the image host from cfg and
// builds a server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{SeedDemo: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, rt.DB, rt.Redis, rt.Images)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redis client disables push, revocation, tickets and the websocket
// endpoint; a nil host disables uploads.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, host imagehost.ImageHost) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server config is required")
	}
	if host == nil {
		host = imagehost.Disabled{}
	}

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   middleware.InitMetrics("sportsync-api"),
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		matchRepo:        repository.NewMatchPostRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		chatRepo:         repository.NewChatRepository(db),
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
	}

	var publisher service.Publisher
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.hub = notifications.NewHub()
		publisher = s.notifier
	}

	var archiver *imagehost.Archiver
	if cfg.ArchiveDir != "" {
		archiver = imagehost.NewArchiver(cfg.ArchiveDir, cfg.ImageArchiveStrict)
	}
	media := service.NewMedia(host, archiver,
		imagehost.NewCleaner(host, cfg.ImageCleanupAttempts, cfg.ImageCleanupStrict))

	s.notificationService = service.NewNotificationService(s.notificationRepo, publisher, s.featureFlags)
	s.userService = service.NewUserService(s.userRepo, media)
	s.postService = service.NewPostService(s.userRepo, s.postRepo, s.notificationService, media)
	s.matchPostService = service.NewMatchPostService(s.userRepo, s.matchRepo, media)
	s.chatService = service.NewChatService(s.chatRepo, s.userRepo, s.notificationService, media)

	return s, nil
}

// NewApp builds a Fiber app with the error envelope, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SportSync API",
		BodyLimit:    12 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler writes framework errors and recovered panics in the same
// envelope as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = models.CodeNotFound
		case fe.Code == fiber.StatusUnauthorized:
			code = models.CodeUnauthorized
		case fe.Code < fiber.StatusInternalServerError:
			code = models.CodeValidation
		}
		return models.RespondWithError(c, fe.Code, &models.AppError{Code: code, Message: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "Unhandled error",
		"error", err,
		"path", c.Path(),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SportSync Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := s.AuthRequired()

	users := api.Group("/users")
	users.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	users.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/logout", s.Logout)
	users.Get("/profile/:query", s.GetUserProfile)
	users.Get("/suggested", auth, s.GetSuggestedUsers)
	users.Post("/follow/:id", auth, s.FollowUnfollowUser)
	users.Put("/update/:id", auth, s.UpdateUser)

	// Specific routes are registered before the generic /:id routes.
	posts := api.Group("/posts")
	posts.Get("/feed", auth, s.GetFeedPosts)
	posts.Get("/user/:username", s.GetUserPosts)
	posts.Post("/create", auth, middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Put("/like/:id", auth, s.LikeUnlikePost)
	posts.Put("/reply/:id", auth, middleware.RateLimit(s.redis, 20, time.Minute, "reply"), s.ReplyToPost)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", auth, s.DeletePost)

	matchposts := api.Group("/matchpost")
	matchposts.Get("/matchfeed", auth, s.GetMatchFeed)
	matchposts.Get("/user/:username", s.GetUserMatchPosts)
	matchposts.Post("/create", auth, middleware.RateLimit(s.redis, 10, time.Minute, "create_matchpost"), s.CreateMatchPost)
	matchposts.Get("/:id", s.GetMatchPost)
	matchposts.Delete("/:id", auth, s.DeleteMatchPost)

	notis := api.Group("/notifications", auth)
	notis.Get("/getnoti", s.GetNotifications)
	notis.Delete("/delnoti", s.DeleteNotifications)

	messages := api.Group("/messages", auth)
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "send_message"), s.SendMessage)
	messages.Get("/conversations", s.GetConversations)
	messages.Get("/:otherUserId", s.GetMessages)

	api.Get("/flags", auth, s.GetFeatureFlags)

	if s.hub != nil {
		api.Post("/ws/ticket", auth, s.IssueWSTicket)
		api.Get("/ws", auth, s.WebsocketHandler())
	}
}

// LivenessCheck handles liveness probe requests
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,time=string}
// @Router /health/live [get]
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
// @Summary Readiness probe
// @Description Checks the database and Redis connections
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object}
// @Failure 503 {object} object{status=string,checks=object}
// @Router /health/ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unhealthy"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: without it push and revocation are off, the API is not.
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

// AuthRequired resolves the caller from a single-use websocket ticket or a
// session token and stores the user id in locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isWSPath := strings.HasPrefix(c.Path(), "/api/ws") && c.Path() != "/api/ws/ticket"

		if ticket := c.Query("ticket"); ticket != "" && isWSPath {
			userID, ok := s.consumeWSTicket(c.UserContext(), ticket)
			if !ok {
				return unauthorized(c)
			}
			return s.authenticated(c, userID)
		}

		claims, err := middleware.ParseToken(s.config.JWTSecret, middleware.TokenFromRequest(c))
		if err != nil {
			return unauthorized(c)
		}

		if claims.JTI != "" && s.redis != nil {
			revoked, err := s.redis.Exists(c.UserContext(), blacklistPrefix+claims.JTI).Result()
			if err == nil && revoked > 0 {
				return unauthorized(c)
			}
		}

		return s.authenticated(c, claims.UserID)
	}
}

func (s *Server) authenticated(c *fiber.Ctx, userID uint) error {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
	return c.Next()
}

// consumeWSTicket looks a ticket up and deletes it so it works once.
func (s *Server) consumeWSTicket(ctx context.Context, ticket string) (uint, bool) {
	if s.redis == nil {
		return 0, false
	}
	raw, err := s.redis.GetDel(ctx, wsTicketPrefix+ticket).Result()
	if err != nil {
		return 0, false
	}
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}
	return uint(userID), true
}

func unauthorized(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusUnauthorized,
		models.NewUnauthorizedError("Unauthorized access"))
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.hub != nil && s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start %s wiring: %v", s.hub.Name(), err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the wiring goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", s.hub.Name(), err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
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
