package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/poehali/auth-gateway/internal/domain"
	"github.com/poehali/auth-gateway/pkg/database"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *database.Postgres
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.Postgres) SessionRepository {
	return &sessionRepository{db: db}
}

// GetWithUser retrieves a session and its owning user by exact token match
func (r *sessionRepository) GetWithUser(ctx context.Context, token string) (*domain.Session, *domain.User, error) {
	if r.db == nil {
		return nil, nil, ErrNotConfigured
	}

	query := `
		SELECT s.id, s.user_id, s.expires_at, s.created_at,
		       u.id, u.google_id, u.email, u.name, u.picture
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.session_token = $1
	`

	session := &domain.Session{Token: token}
	user := &domain.User{}
	var name, picture sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&name,
		&picture,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("session not found: %w", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	if name.Valid {
		user.Name = &name.String
	}
	if picture.Valid {
		user.Picture = &picture.String
	}

	return session, user, nil
}

// Expire invalidates a session by moving its expiry to the current time.
// The row is kept as history; an unknown token affects zero rows.
func (r *sessionRepository) Expire(ctx context.Context, token string) error {
	if r.db == nil {
		return ErrNotConfigured
	}

	query := `UPDATE sessions SET expires_at = $1 WHERE session_token = $2`

	if _, err := r.db.DB.ExecContext(ctx, query, time.Now(), token); err != nil {
		return fmt.Errorf("failed to expire session: %w", err)
	}

	return nil
}
