package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdulhadi30211/luminvera-backend/config"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/controller"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/repository"
	"github.com/abdulhadi30211/luminvera-backend/internal/app/service"
	"github.com/abdulhadi30211/luminvera-backend/internal/db"
	"github.com/abdulhadi30211/luminvera-backend/internal/middleware"
	"github.com/abdulhadi30211/luminvera-backend/internal/router"
	"github.com/abdulhadi30211/luminvera-backend/internal/scheduler"
	"github.com/abdulhadi30211/luminvera-backend/internal/storage"
	"github.com/abdulhadi30211/luminvera-backend/pkg/logger"
	"github.com/abdulhadi30211/luminvera-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting LUMINVERA Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token blacklist is optional: without Redis, logout is client-side only
	var tokenStore *redis.TokenStore
	if cfg.Redis.Enabled {
		tokenStore, err = redis.NewTokenStore(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := tokenStore.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	} else {
		logger.Warn("Redis disabled, token revocation is unavailable", nil)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	profileRepo := repository.NewProfileRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		profileRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo, categoryRepo)
	exportService := service.NewExportService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)

	// Initialize storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	var revoker controller.TokenRevoker
	var blacklist middleware.TokenBlacklist
	if tokenStore != nil {
		revoker = tokenStore
		blacklist = tokenStore
	}
	authController := controller.NewAuthController(authService, revoker, cfg.JWT.Secret)
	productController := controller.NewProductController(productService, exportService)
	cartController := controller.NewCartController(cartService)
	wishlistController := controller.NewWishlistController(wishlistService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, blacklist)

	// Start orphaned row cleanup scheduler
	cleanupScheduler := scheduler.NewCleanupScheduler(cartRepo, wishlistRepo)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		wishlistController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
