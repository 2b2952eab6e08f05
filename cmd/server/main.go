package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/audit"
	"github.com/inkwelldev/inkwell/internal/config"
	"github.com/inkwelldev/inkwell/internal/database"
	"github.com/inkwelldev/inkwell/internal/handler"
	"github.com/inkwelldev/inkwell/internal/middleware"
	"github.com/inkwelldev/inkwell/internal/repository"
	"github.com/inkwelldev/inkwell/internal/service"
	"github.com/inkwelldev/inkwell/internal/session"
	"github.com/inkwelldev/inkwell/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Session store in Redis; sessions expire server-side via TTL.
	sessionStore, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}
	defer sessionStore.Close()

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL)

	// Append-only trail of auth events.
	trail, err := audit.Open(cfg.AuditLogPath)
	if err != nil {
		log.Fatalf("Failed to open audit log: %v", err)
	}
	defer trail.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, sessions, trail)
	postService := service.NewPostService(postRepo)
	profileService := service.NewProfileService(profileRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL, cfg.IsProduction())
	postHandler := handler.NewPostHandler(postService)
	profileHandler := handler.NewProfileHandler(profileService)
	adminHandler := handler.NewAdminHandler(authService)

	// Rate limiter fronts the credential endpoints only.
	limiter := middleware.NewRateLimiter(sessionStore.Client(), middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))

	// Public routes
	authRoutes := router.Group("/api/auth")
	authRoutes.Use(limiter.Middleware())
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}
	router.POST("/api/auth/logout", authHandler.Logout)
	router.GET("/api/posts", postHandler.List)
	router.GET("/api/posts/:id", postHandler.Get)
	router.GET("/api/users/:id/profile", profileHandler.Get)

	// Protected routes (require an active session)
	protected := router.Group("/api")
	protected.Use(middleware.RequireAuth(authService))
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", postHandler.Update)
		protected.DELETE("/posts/:id", postHandler.Delete)
		protected.PUT("/profile", profileHandler.UpdateOwn)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.RequireAuth(authService), middleware.RequireAdmin())
	{
		admin.GET("/users", adminHandler.GetAllUsers)
		admin.POST("/role", adminHandler.SetRole)
		admin.POST("/ban", adminHandler.BanUser)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
