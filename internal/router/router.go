package router

import (
	"github.com/natadigital/auth-service/config"
	"github.com/natadigital/auth-service/internal/handler"
	"github.com/natadigital/auth-service/internal/middleware"
	"github.com/natadigital/auth-service/pkg/redis"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler   *handler.AuthHandler
	healthHandler *handler.HealthHandler
	authMw        *middleware.AuthMiddleware
	redisClient   *redis.Client
	config        *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	health *handler.HealthHandler,
	authMw *middleware.AuthMiddleware,
	redisClient *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		healthHandler: health,
		authMw:        authMw,
		redisClient:   redisClient,
		config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS())

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			if r.redisClient != nil {
				v1.Use(middleware.RateLimit(r.redisClient, r.config.RateLimit.Request, r.config.RateLimit.Duration))
			}

			r.authRoutes(v1)
		}
	}

	return router
}

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/refresh", r.authHandler.RefreshToken)

		// Protected routes (access token required)
		protected := auth.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.POST("/change-password", r.authHandler.ChangePassword)
		}
	}
}
