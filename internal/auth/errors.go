package auth

import "errors"

var (
	// ErrConflict is returned when a signup collides with an existing
	// username or email, whether caught by the pre-check or by the
	// database uniqueness constraint.
	ErrConflict = errors.New("username or email already exists")

	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password". Login must not distinguish the two, otherwise the
	// error becomes a username enumeration oracle.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a verified token references a
	// user that no longer exists in the store.
	ErrUserNotFound = errors.New("user not found")

	// ErrHashing indicates the bcrypt primitive itself failed, which
	// only happens on entropy or resource exhaustion. Treated as an
	// internal error, never retried.
	ErrHashing = errors.New("failed to hash password")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
