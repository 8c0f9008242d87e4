package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gateway-inject/docs"
	"gateway-inject/internal/middleware"
	"gateway-inject/internal/repositories"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Users       repositories.UserRepository
	AuthService *middleware.AuthService
	Database    HealthChecker

	RateLimit        float64
	RateLimitBurst   int
	CompressionLevel int
	Compression      bool
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	userHandler := NewUserHandler(config.Users)
	echoHandler := NewEchoHandler()
	authHandler := NewAuthHandler(config.AuthService)
	healthHandler := NewHealthHandler(config.Database, Version)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthHandler.Health)

	users := router.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)

		protected := users.Group("")
		protected.Use(
			middleware.Authentication(config.AuthService),
			middleware.Authorization(middleware.RoleAdmin),
			middleware.ContentTypeValidation("application/json"),
		)
		{
			protected.POST("", userHandler.CreateUser)
		}
	}

	auth := router.Group("/auth")
	{
		auth.POST("/validate", authHandler.ValidateToken)
		auth.GET("/me", middleware.Authentication(config.AuthService), authHandler.GetCurrentUser)
	}

	router.GET("/headers", echoHandler.Headers)
	router.POST("/payload", echoHandler.Payload)
	router.GET("/images/logo.svg", echoHandler.Logo)
	router.GET("/encoding", echoHandler.Encoding)

	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, config *RouterConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Request size limit (6MB, the synchronous invocation payload limit)
	router.Use(middleware.RequestSizeLimit(6 * 1024 * 1024))

	if config.RateLimit > 0 {
		router.Use(middleware.RateLimiter(config.RateLimit, config.RateLimitBurst))
	}

	router.Use(middleware.StructuredLogger())
	router.Use(middleware.PerformanceMonitor(time.Second))

	if config.Compression {
		router.Use(middleware.Compression(config.CompressionLevel))
	}

	router.Use(middleware.ErrorHandler())
}

// SetupDevelopmentRoutes adds development-only routes
func SetupDevelopmentRoutes(router *gin.Engine, config *RouterConfig) {
	authHandler := NewAuthHandler(config.AuthService)

	dev := router.Group("/dev")
	{
		// Generate demo token for testing
		dev.POST("/token", authHandler.DevToken)
	}
}
