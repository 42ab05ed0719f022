package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTokenExpiry is the access token lifetime. The value is
	// deliberately explicit rather than left to a library default:
	// rotating JWT_SECRET is the only way to invalidate issued tokens,
	// so the TTL bounds how long a leaked token stays usable.
	DefaultTokenExpiry = 24 * time.Hour

	// DefaultBcryptCost matches the work factor the service has always
	// hashed with; lowering it would weaken newly created accounts.
	DefaultBcryptCost = 10
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	AllowedOrigins string

	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig

	BcryptCost int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host          string
	Port          string
	RedisPassword string
	RedisDB       string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

func Load() *Config {
	return &Config{
		AppName: os.Getenv("APP_NAME"),
		AppEnv:  os.Getenv("APP_ENV"),
		AppPort: os.Getenv("APP_PORT"),

		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),

		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  os.Getenv("DB_SSLMODE"),
		},

		Redis: RedisConfig{
			Host:          os.Getenv("REDIS_HOST"),
			Port:          os.Getenv("REDIS_PORT"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       os.Getenv("REDIS_DB"),
		},

		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Expiry: parseExpiry(os.Getenv("JWT_EXPIRY")),
		},

		BcryptCost: parseBcryptCost(os.Getenv("BCRYPT_COST")),
	}
}

func parseExpiry(raw string) time.Duration {
	if raw == "" {
		return DefaultTokenExpiry
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return DefaultTokenExpiry
	}
	return d
}

func parseBcryptCost(raw string) int {
	if raw == "" {
		return DefaultBcryptCost
	}
	cost, err := strconv.Atoi(raw)
	if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return DefaultBcryptCost
	}
	return cost
}
