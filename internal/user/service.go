package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"auth_service/internal/auth"
	"auth_service/internal/cache"
	"auth_service/internal/observability"
	"auth_service/internal/utils"

	"github.com/sirupsen/logrus"
)

type AuthService struct {
	repo       UserRepositoryInterface
	db         *sql.DB
	tokens     *auth.TokenManager
	bcryptCost int
	cache      *cache.ProfileCache
}

type AuthServiceInterface interface {
	SignUp(username, email, password string) (*AuthResponse, error)
	Login(username, password string) (*AuthResponse, error)
	GetProfile(userID int) (*Profile, error)
}

// NewAuthService wires the service to its collaborators explicitly so
// tests can substitute the repository and token manager. The profile
// cache is optional; passing nil disables caching.
func NewAuthService(repo UserRepositoryInterface, db *sql.DB, tokens *auth.TokenManager, bcryptCost int, profileCache *cache.ProfileCache) AuthServiceInterface {
	return &AuthService{
		repo:       repo,
		db:         db,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		cache:      profileCache,
	}
}

// SignUp registers a new user and issues a token for it.
//
// The duplicate pre-check is an early exit, not the correctness
// guarantee: two concurrent signups can both pass it, and the second
// insert then fails on the database uniqueness constraint, which the
// repository already reports as auth.ErrConflict.
func (s *AuthService) SignUp(username, email, password string) (*AuthResponse, error) {
	existing, err := s.repo.GetByUsernameOrEmail(s.db, username, email)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, auth.ErrConflict
	}

	hashedPassword, err := auth.GeneratePasswordHash(password, s.bcryptCost)
	if err != nil {
		logrus.WithError(err).Error("Failed to hash password")
		return nil, auth.ErrHashing
	}

	user := &User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Create(tx, user)
	}); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User: Profile{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

// Login verifies credentials and issues a token. Unknown username and
// wrong password produce the same error so the response does not reveal
// whether an account exists.
func (s *AuthService) Login(username, password string) (*AuthResponse, error) {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.ComparePasswordHash([]byte(user.Password), password) {
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token: token,
		User: Profile{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

// GetProfile returns the profile projection for an already-authenticated
// user id. A missing row is an auth failure, not a plain not-found: a
// valid token whose subject no longer exists must not be trusted.
func (s *AuthService) GetProfile(userID int) (*Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if s.cache != nil {
		cachedData, err := s.cache.Get(ctx, cache.ProfileKey(userID))
		if err == nil && cachedData != nil {
			var profile Profile
			if json.Unmarshal(cachedData, &profile) == nil {
				logrus.Info("cache hit for profile ", userID)
				observability.GlobalMetrics.CacheHitsTotal.WithLabelValues("profile").Inc()
				return &profile, nil
			}
		}
	}

	profile, err := s.repo.GetProfileByID(s.db, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		logrus.Info("cache miss for profile ", userID)
		observability.GlobalMetrics.CacheMissesTotal.WithLabelValues("profile").Inc()
		if err := s.cache.Set(ctx, cache.ProfileKey(userID), profile); err != nil {
			logrus.WithError(err).Warn("Failed to set cache for profile")
		}
	}

	return profile, nil
}
