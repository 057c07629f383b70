package repository

import (
	"context"

	"github.com/poehali/auth-gateway/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	// UpsertWithSession creates or refreshes the user identified by
	// user.GoogleID and records the new session, all in one transaction.
	// On return user.ID is set to the stored row's id.
	UpsertWithSession(ctx context.Context, user *domain.User, session *domain.Session) error
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
}

// SessionRepository defines methods for session operations
type SessionRepository interface {
	// GetWithUser resolves a session token to the session and its owning
	// user in a single read-only query.
	GetWithUser(ctx context.Context, token string) (*domain.Session, *domain.User, error)
	// Expire sets the session's expiry to the current time. Unknown tokens
	// affect zero rows and are not an error.
	Expire(ctx context.Context, token string) error
}
