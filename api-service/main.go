package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ngoconnect-backend/api-service/handlers"
	"ngoconnect-backend/api-service/middleware"
	"ngoconnect-backend/api-service/services"
	"ngoconnect-backend/shared/config"
	"ngoconnect-backend/shared/database"
	"ngoconnect-backend/shared/database/models"
	"ngoconnect-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Initialize blob storage
	storage, err := services.NewMinIOService()
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Initialize login throttle (degrades to disabled when Redis is down)
	if err := cache.InitLoginThrottle(); err != nil {
		log.Printf("Warning: login throttle disabled: %v", err)
	}

	// Hash worker pool keeps bcrypt off the request goroutines
	hasher := services.NewHashWorkerPool(cfg.GetHashWorkerCount())
	defer hasher.Close()

	db := database.GetDB()
	userStore := services.NewGormUserStore(db)
	ngoStore := services.NewGormNGOStore(db)
	uploadService := services.NewUploadService(userStore, ngoStore, storage)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userStore, hasher)
	userHandler := handlers.NewUserHandler(userStore, hasher)
	ngoHandler := handlers.NewNGOHandler(ngoStore)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(30 * time.Minute)

	loginConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetLoginRateLimitMaxAttempts(),
		TimeWindow:    time.Duration(cfg.GetLoginRateLimitWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetLoginRateLimitBlockMinutes()) * time.Minute,
	}

	registrationConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetRegisterRateLimitMaxAttempts(),
		TimeWindow:    time.Duration(cfg.GetRegisterRateLimitWindowHours()) * time.Hour,
		BlockDuration: time.Duration(cfg.GetRegisterRateLimitBlockHours()) * time.Hour,
	}

	generalConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}

	router := gin.Default()
	router.MaxMultipartMemory = 8 << 20 // 8 MiB; larger files spill to disk, uploads stream either way

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	allRoles := []models.Role{models.RoleAdmin, models.RoleNGO, models.RoleIndependent}

	// Auth endpoints
	router.POST("/api/auth/login", rateLimiter.LoginRateLimitMiddleware(loginConfig), authHandler.Login)
	router.POST("/api/auth/refresh", rateLimiter.RateLimitMiddleware(generalConfig), authHandler.Refresh)

	// User endpoints
	router.POST("/api/users", rateLimiter.RegistrationRateLimitMiddleware(registrationConfig), userHandler.CreateUser)
	router.GET("/api/users", middleware.Authenticate(), middleware.RequireRoles(allRoles...), userHandler.GetUsers)
	router.GET("/api/users/:id", middleware.Authenticate(), middleware.RequireRoles(allRoles...), userHandler.GetUser)
	router.PUT("/api/users/:id", middleware.Authenticate(), middleware.RequireRoles(models.RoleAdmin), userHandler.UpdateUser)

	// NGO endpoints
	router.POST("/api/ngos", middleware.Authenticate(), middleware.RequireRoles(models.RoleNGO, models.RoleAdmin), ngoHandler.CreateNGO)
	router.GET("/api/ngos", middleware.Authenticate(), middleware.RequireRoles(allRoles...), ngoHandler.GetNGOs)
	router.GET("/api/ngos/:id", middleware.Authenticate(), middleware.RequireRoles(allRoles...), ngoHandler.GetNGO)
	router.PUT("/api/ngos/:id", middleware.Authenticate(), middleware.RequireRoles(models.RoleAdmin), ngoHandler.UpdateNGO)
	router.POST("/api/ngos/:id/upload", middleware.Authenticate(), middleware.RequireRoles(allRoles...), uploadHandler.UploadDocument)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "api",
		})
	})

	log.Printf("🚀 API service starting on port %s", cfg.APIPort)
	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Failed to start API service: %v", err)
	}
}
