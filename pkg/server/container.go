package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gateway-inject/internal/config"
	"gateway-inject/internal/database"
	"gateway-inject/internal/handlers"
	"gateway-inject/internal/middleware"
	"gateway-inject/internal/repositories"
	"gateway-inject/internal/repositories/sqlite"
	"gateway-inject/pkg/lambda"
)

// Container holds all application dependencies and serves the example
// application in process. It is a lambda.Injector.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *database.ConnectionManager
	Users  repositories.UserRepository
	Auth   *middleware.AuthService
	Router *gin.Engine

	injector *HandlerInjector
}

// NewContainer connects the database, wires repositories and builds the router
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = config.NewLogger(cfg.Log)
	}

	db := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath:    cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		AutoMigrate:     cfg.Database.AutoMigrate,
		Logger:          logger,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	users := sqlite.NewUserRepository(db.GetDB(), logger)
	auth := middleware.NewAuthService(&middleware.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenDuration: time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		Issuer:        cfg.JWT.Issuer,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routerConfig := &handlers.RouterConfig{
		Users:            users,
		AuthService:      auth,
		Database:         db,
		RateLimit:        cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:   cfg.RateLimit.Burst,
		Compression:      cfg.Compression.Enabled,
		CompressionLevel: cfg.Compression.Level,
	}
	handlers.SetupMiddleware(router, routerConfig)
	handlers.SetupRoutes(router, routerConfig)
	if !cfg.IsProduction() {
		handlers.SetupDevelopmentRoutes(router, routerConfig)
	}

	logger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"database":    cfg.Database.Path,
	}).Info("Container initialized")

	return &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Users:    users,
		Auth:     auth,
		Router:   router,
		injector: NewHandlerInjector(router),
	}, nil
}

// Inject serves req with the router
func (c *Container) Inject(ctx context.Context, req *lambda.RequestDescriptor) (*lambda.RawResponse, error) {
	return c.injector.Inject(ctx, req)
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
