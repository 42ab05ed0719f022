package middleware

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"auth_service/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

//go:embed rate_limiter.lua
var luaScript string

// RateLimiterConfig holds rate limiter configuration
type RateLimiterConfig struct {
	Capacity   int     // Maximum number of tokens (max requests)
	RefillRate float64 // Tokens refilled per second
}

// DefaultRateLimiterConfig returns default rate limiter settings
// 10 requests per second with burst capacity of 20
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   20,   // Can burst up to 20 requests
		RefillRate: 10.0, // Refills 10 tokens per second
	}
}

// StrictRateLimiterConfig is for the public credential endpoints, where
// the limiter doubles as brute-force protection.
// Burst: 10 requests, sustained: 1 request per 2 seconds
func StrictRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   10,
		RefillRate: 0.5,
	}
}

// KeyFunc derives the rate limiter bucket key from the request. It
// returns an error when no key can be derived, in which case the request
// is rejected with 401.
type KeyFunc func(c *gin.Context) (string, error)

// UserKey buckets by the authenticated user id. Only usable behind
// AuthMiddleware.
func UserKey(c *gin.Context) (string, error) {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rate_limiter:user:%d", userID), nil
}

// ClientIPKey buckets by client IP, for endpoints reachable without a
// token (signup, login).
func ClientIPKey(c *gin.Context) (string, error) {
	return fmt.Sprintf("rate_limiter:ip:%s", c.ClientIP()), nil
}

// RateLimiterMiddleware implements the Token Bucket algorithm using Redis + Lua script
func RateLimiterMiddleware(redisClient *redis.Client, config *RateLimiterConfig, keyFn KeyFunc) gin.HandlerFunc {
	// Load Lua script into Redis (SHA hash will be cached)
	ctx := context.Background()
	scriptSHA, err := redisClient.ScriptLoad(ctx, luaScript).Result()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load Lua script for rate limiter")
	}

	return func(c *gin.Context) {
		key, err := keyFn(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		// Current timestamp
		now := time.Now().Unix()

		// Execute Lua script
		result, err := redisClient.EvalSha(ctx, scriptSHA, []string{key},
			config.Capacity,
			config.RefillRate,
			now,
		).Result()

		if err != nil {
			logrus.WithError(err).Error("Failed to execute rate limiter Lua script")
			// Fail open: allow request if Redis fails
			c.Next()
			return
		}

		// Check if request is allowed
		allowed := result.(int64)
		if allowed == 0 {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": fmt.Sprintf("%.1f seconds", 1.0/config.RefillRate),
			})
			c.Abort()
			return
		}

		// Request allowed, continue
		c.Next()
	}
}
