package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrNotConfigured is returned when no database connection is available.
	// The service maps it to the "Database not configured" response.
	ErrNotConfigured = errors.New("database not configured")

	// ErrDuplicateSessionToken is returned when a generated session token
	// collides with an existing one
	ErrDuplicateSessionToken = errors.New("session token already exists")
)
