package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist yet.
//
// The UNIQUE constraints on username and email are load-bearing: the
// service pre-checks for duplicates before inserting, but two concurrent
// signups can both pass that check. The constraints are what actually
// guarantee uniqueness; the insert path translates the resulting
// constraint violation into a conflict error.
func Migrate(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}
