package handler

import (
	"database/sql"
	"net/http"
	"time"

	"auth_service/internal/auth"
	"auth_service/internal/cache"
	"auth_service/internal/config"
	"auth_service/internal/middleware"
	"auth_service/internal/observability"
	"auth_service/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const version = "1.0.0"

var startedAt = time.Now()

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.Default()

	observability.InitMetrics()
	r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))
	if cfg.AllowedOrigins != "" {
		r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	}

	// Initialize collaborators
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	userRepo := user.NewUserRepository()

	var profileCache *cache.ProfileCache
	if redisClient != nil {
		profileCache = cache.NewProfileCache(redisClient)
	}

	authService := user.NewAuthService(userRepo, db, tokens, cfg.BcryptCost, profileCache)
	authController := user.NewAuthController(authService)

	setupRoutes(r, authController, tokens, redisClient, cfg)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, authCtrl *user.AuthController, tokens *auth.TokenManager, redisClient *redis.Client, cfg *config.Config) {

	r.GET("/", rootHandler)
	r.GET("/health", healthHandler(cfg))

	// Public routes - credential endpoints, IP-bucketed rate limit
	authGroup := r.Group("/auth")
	if redisClient != nil {
		authGroup.Use(middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiterConfig(), middleware.ClientIPKey))
	}
	{
		authGroup.POST("/signup", authCtrl.SignUp)
		authGroup.POST("/login", authCtrl.Login)
	}

	// Protected routes - token required, user-bucketed rate limit
	protected := r.Group("/auth")
	protected.Use(middleware.AuthMiddleware(tokens))
	if redisClient != nil {
		protected.Use(middleware.RateLimiterMiddleware(redisClient, middleware.DefaultRateLimiterConfig(), middleware.UserKey))
	}
	{
		protected.GET("/profile", authCtrl.GetProfile)
	}
}

func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Auth Service API",
		"status":  "running",
		"version": version,
	})
}

func healthHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startedAt).Seconds(),
			"environment": cfg.AppEnv,
			"version":     version,
		})
	}
}
