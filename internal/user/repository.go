package user

import (
	"database/sql"
	"errors"

	"auth_service/internal/auth"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(tx *sql.Tx, user *User) error
	GetByUsername(db *sql.DB, username string) (*User, error)
	GetByUsernameOrEmail(db *sql.DB, username, email string) (*User, error)
	GetProfileByID(db *sql.DB, id int) (*Profile, error)
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

// Create persists a new user and fills in the store-assigned id and
// created_at. A duplicate username or email that slipped past the
// service's pre-check trips the database uniqueness constraint here and
// is reported as auth.ErrConflict.
func (r *UserRepository) Create(
	tx *sql.Tx,
	user *User,
) error {
	query := `
		INSERT INTO users (
			username, email, password, created_at
		)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := tx.QueryRow(
		query,
		user.Username,
		user.Email,
		user.Password,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			logrus.WithFields(logrus.Fields{
				"username": user.Username,
			}).Warn("Signup lost uniqueness race")
			return auth.ErrConflict
		}
		logrus.WithError(err).Error("Failed to create user")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User created successfully")

	return nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(db *sql.DB, username string) (*User, error) {
	query := `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE username = $1
	`

	user := &User{}
	err := db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by username")
		return nil, err
	}

	return user, nil
}

// GetByUsernameOrEmail retrieves any user matching either field. Used as
// the pre-create duplicate screen.
func (r *UserRepository) GetByUsernameOrEmail(db *sql.DB, username, email string) (*User, error) {
	query := `
		SELECT id, username, email, password, created_at
		FROM users
		WHERE username = $1 OR email = $2
	`

	user := &User{}
	err := db.QueryRow(query, username, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by username or email")
		return nil, err
	}

	return user, nil
}

// GetProfileByID retrieves a user by ID, projecting out the password hash.
func (r *UserRepository) GetProfileByID(db *sql.DB, id int) (*Profile, error) {
	query := `
		SELECT id, username, email, created_at
		FROM users
		WHERE id = $1
	`

	profile := &Profile{}
	err := db.QueryRow(query, id).Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logrus.WithField("user_id", id).Warn("User not found")
			return nil, auth.ErrUserNotFound
		}
		logrus.WithError(err).Error("Failed to get user by ID")
		return nil, err
	}

	return profile, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
