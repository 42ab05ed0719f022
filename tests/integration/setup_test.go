//go:build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"auth_service/internal/cache"
	"auth_service/internal/config"
	"auth_service/internal/db"

	"github.com/go-redis/redis/v8"
)

// TestEnv holds all test dependencies
type TestEnv struct {
	DB          *sql.DB
	RedisClient *redis.Client
	Config      *config.Config
}

// SetupTestEnv initializes test environment
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := loadTestConfig()

	// Setup database
	database := db.Init(&cfg.DB)
	if database == nil {
		t.Fatal("Failed to connect to test database")
	}

	// Run schema migrations
	if err := db.Migrate(database); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Setup Redis
	redisClient := cache.SetupRedis(&cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	redisClient.FlushDB(ctx)

	return &TestEnv{
		DB:          database,
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// Cleanup cleans up test environment
func (env *TestEnv) Cleanup(t *testing.T) {
	t.Helper()

	if env.DB != nil {
		env.DB.Exec("TRUNCATE TABLE users CASCADE")
		env.DB.Close()
	}

	if env.RedisClient != nil {
		env.RedisClient.FlushDB(context.Background())
		env.RedisClient.Close()
	}
}

// loadTestConfig loads test configuration with defaults
func loadTestConfig() *config.Config {
	return &config.Config{
		AppName: "integration-test",
		AppEnv:  "test",
		AppPort: getEnv("APP_PORT", "8081"),
		DB: config.DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "auth_db_test"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: config.RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnv("REDIS_DB", "0"),
		},
		JWT: config.JWTConfig{
			Secret: getEnv("JWT_SECRET", "test-secret-key-for-integration"),
			Expiry: config.DefaultTokenExpiry,
		},
		BcryptCost: config.DefaultBcryptCost,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
