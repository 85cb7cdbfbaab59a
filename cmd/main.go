package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/natadigital/auth-service/config"
	"github.com/natadigital/auth-service/internal/handler"
	"github.com/natadigital/auth-service/internal/middleware"
	"github.com/natadigital/auth-service/internal/repository"
	"github.com/natadigital/auth-service/internal/router"
	"github.com/natadigital/auth-service/internal/service"
	"github.com/natadigital/auth-service/internal/validation"
	"github.com/natadigital/auth-service/pkg/database"
	"github.com/natadigital/auth-service/pkg/logger"
	"github.com/natadigital/auth-service/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	// Redis backs the boundary rate limiter; the service runs without it
	redisClient, err := redis.NewClient(config)
	if err != nil {
		logger.GetLogger().Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	if err := validation.RegisterCustomValidators(); err != nil {
		logger.GetLogger().Fatal("Failed to register validators", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)

	hasher := service.NewPasswordHasher(config.Password.BcryptCost)
	issuer := service.NewTokenIssuer(config.Token.Secret, config.Token.AccessTTL)
	authService := service.NewAuthService(userRepo, hasher, issuer, config.Token.RefreshTTL, logger.GetLogger())

	authHandler := handler.NewAuthHandler(authService, !config.IsProduction())
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(issuer)

	engine := router.NewRouter(
		authHandler,
		healthHandler,
		authMiddleware,
		redisClient,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	// Expired slots are also rejected on read; this sweep just keeps rows tidy
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go runRefreshTokenCleanup(cleanupCtx, userRepo)

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server shutdown failed", zap.Error(err))
	}
}

func runRefreshTokenCleanup(ctx context.Context, repo *repository.UserRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := repo.CleanupExpiredRefreshTokens(ctx); err != nil {
				logger.GetLogger().Warn("Refresh token cleanup failed", zap.Error(err))
			}
		}
	}
}
