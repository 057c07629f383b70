package domain

import "time"

// User represents a distinct external identity. One row exists per Google
// subject id; profile fields are refreshed from Google on every login.
type User struct {
	ID       int64   `json:"id" db:"id"`
	GoogleID string  `json:"-" db:"google_id"`
	Email    string  `json:"email" db:"email"`
	Name     *string `json:"name" db:"name"`
	Picture  *string `json:"picture" db:"picture"`
}

// Session represents one logged-in client instance. Validity is a pure
// function of ExpiresAt vs. now: logout sets ExpiresAt to the current time
// instead of deleting the row, so expiry and revocation are the same thing.
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"session_token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Expired reports whether the session is past its expiry at the given time
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
