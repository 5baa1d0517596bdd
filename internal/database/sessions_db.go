package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/microblog/app/internal/models"
)

// CreateSession stores a new login session.
func CreateSession(ctx context.Context, q sqlx.ExtContext, s *models.Session) error {
	query := q.Rebind(`INSERT INTO sessions (token, user_id, persistent, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if _, err := q.ExecContext(ctx, query, s.Token, s.UserID, s.Persistent, s.ExpiresAt.UTC(), s.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession looks a session up by token. Expiry is not checked here.
func GetSession(ctx context.Context, q sqlx.ExtContext, token string) (*models.Session, error) {
	s := &models.Session{}
	query := q.Rebind("SELECT token, user_id, persistent, expires_at, created_at FROM sessions WHERE token = ?")
	if err := sqlx.GetContext(ctx, q, s, query, token); err != nil {
		return nil, notFound(err, "get session")
	}
	return s, nil
}

// DeleteSession removes a session. Deleting an unknown token is not an error.
func DeleteSession(ctx context.Context, q sqlx.ExtContext, token string) error {
	if _, err := q.ExecContext(ctx, q.Rebind("DELETE FROM sessions WHERE token = ?"), token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now and
// reports how many were removed.
func DeleteExpiredSessions(ctx context.Context, q sqlx.ExtContext, now time.Time) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM sessions WHERE expires_at <= ?"), now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
