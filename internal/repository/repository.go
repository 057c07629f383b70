package repository

import (
	"github.com/poehali/auth-gateway/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Session SessionRepository
}

// NewRepositories creates all repositories. A nil db is allowed: every
// operation then reports ErrNotConfigured instead of touching the store.
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Session: NewSessionRepository(db),
	}
}
