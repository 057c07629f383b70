package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/poehali/auth-gateway/internal/domain"
	"github.com/poehali/auth-gateway/pkg/database"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// UpsertWithSession looks up the user by google_id, updates the profile
// fields if the row exists or inserts a new row otherwise, then records the
// session. Both writes commit together so a login never leaves a session
// without its user or a refreshed user without a session.
func (r *userRepository) UpsertWithSession(ctx context.Context, user *domain.User, session *domain.Session) error {
	if r.db == nil {
		return ErrNotConfigured
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM users WHERE google_id = $1`,
		user.GoogleID,
	).Scan(&userID)

	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET email = $1, name = $2, picture = $3 WHERE id = $4`,
			user.Email, user.Name, user.Picture, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		err = tx.QueryRowContext(ctx,
			`INSERT INTO users (google_id, email, name, picture) VALUES ($1, $2, $3, $4) RETURNING id`,
			user.GoogleID, user.Email, user.Name, user.Picture,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}

	user.ID = userID
	session.UserID = userID

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, session_token, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.Token, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("failed to create session: %w", ErrDuplicateSessionToken)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit login transaction: %w", err)
	}

	return nil
}

// GetByGoogleID retrieves a user by its Google subject id
func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	if r.db == nil {
		return nil, ErrNotConfigured
	}

	query := `
		SELECT id, google_id, email, name, picture
		FROM users
		WHERE google_id = $1
	`

	user := &domain.User{}
	var name, picture sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, googleID).Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&name,
		&picture,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with google id %s not found: %w", googleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by google id: %w", err)
	}

	if name.Valid {
		user.Name = &name.String
	}
	if picture.Valid {
		user.Picture = &picture.String
	}

	return user, nil
}
