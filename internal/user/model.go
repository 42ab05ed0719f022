package user

import "time"

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Never expose password hash in JSON
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the projection of a User that is safe to return to clients.
type Profile struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is the shape returned by both signup and login.
type AuthResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
