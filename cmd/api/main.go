package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"daylog/internal/config"
	"daylog/internal/database"
	"daylog/internal/handlers"
	"daylog/internal/logger"
	"daylog/internal/middleware"
	"daylog/internal/services"
	"daylog/internal/session"
	"daylog/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loc := appConfig.Location()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Sessions live in process memory; a restart logs everyone out.
	sessions := session.NewMemoryStore(appConfig.JWTSecret, appConfig.SessionTTL)

	// Initialize services
	db := dbManager.DB()
	authService := services.NewAuthService(appConfig.AdminPassword, appConfig.AdminPasswordHash)
	auditService := services.NewAuditService(db)
	categoryService := services.NewCategoryService(db)
	activityService := services.NewActivityService(db, categoryService, loc)
	cacheService := services.NewCacheService(db)
	statsService := services.NewStatsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, sessions)
	activityHandler := handlers.NewActivityHandler(activityService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	cacheHandler := handlers.NewCacheHandler(cacheService, auditService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Sweep expired sessions out of the registry every hour.
	sweeper := cron.New(cron.WithLocation(loc))
	if _, err := sweeper.AddFunc("@hourly", func() {
		if removed := sessions.Sweep(); removed > 0 {
			log.Infow("swept expired sessions", "removed", removed)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/logout", authHandler.Logout)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.RequireSession(sessions))

	// Activity routes
	activities := protected.Group("/activities")
	activities.GET("/:date", activityHandler.GetByDate)
	activities.POST("", activityHandler.Create)
	activities.PUT("/:id", activityHandler.Update)
	activities.DELETE("/:id", activityHandler.Delete)

	// Legacy static category list. Lives under /api/meta because Gin's
	// route tree cannot mix a static "meta" segment with the :date param.
	protected.GET("/meta/categories", categoryHandler.GetBuiltinCategories)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.POST("/:categoryName/subcategories", categoryHandler.CreateSubcategory)

	// Suggestion routes
	suggestions := protected.Group("/suggestions")
	suggestions.GET("/categories", categoryHandler.SuggestCategories)
	suggestions.GET("/subcategories", categoryHandler.SuggestSubcategories)

	// Cache board routes
	cache := protected.Group("/cache")
	cache.GET("/cache-entries", cacheHandler.List)
	cache.POST("/cache-entries", cacheHandler.Create)
	cache.PUT("/cache-entries/:id", cacheHandler.Update)
	cache.DELETE("/cache-entries/:id", cacheHandler.Delete)

	// Stats routes
	stats := protected.Group("/stats")
	stats.GET("/:date", statsHandler.Daily)

	log.Infof("Starting daylog backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
