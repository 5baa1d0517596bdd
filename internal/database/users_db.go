package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/microblog/app/internal/models"
)

const userColumns = "id, username, email, password_hash, image_file, created_at"

// CreateUser inserts a new user. The password must already be hashed.
// A collision on email or username returns ErrDuplicateEmail or
// ErrDuplicateUsername.
func CreateUser(ctx context.Context, q sqlx.ExtContext, username, email, passwordHash string) (*models.User, error) {
	var id int64
	query := q.Rebind(`INSERT INTO users (username, email, password_hash, image_file, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)
	err := sqlx.GetContext(ctx, q, &id, query,
		username, email, passwordHash, models.DefaultImageFile, time.Now().UTC())
	if err != nil {
		return nil, userConstraintError(err)
	}

	// Read the row back so DB defaults are reflected in the returned model.
	return GetUserByID(ctx, q, id)
}

// GetUserByEmail retrieves a user by their email address.
func GetUserByEmail(ctx context.Context, q sqlx.ExtContext, email string) (*models.User, error) {
	return getUser(ctx, q, "email", email)
}

// GetUserByUsername retrieves a user by their username.
func GetUserByUsername(ctx context.Context, q sqlx.ExtContext, username string) (*models.User, error) {
	return getUser(ctx, q, "username", username)
}

// GetUserByID retrieves a user by their ID.
func GetUserByID(ctx context.Context, q sqlx.ExtContext, id int64) (*models.User, error) {
	return getUser(ctx, q, "id", id)
}

func getUser(ctx context.Context, q sqlx.ExtContext, column string, value any) (*models.User, error) {
	user := &models.User{}
	query := q.Rebind("SELECT " + userColumns + " FROM users WHERE " + column + " = ?")
	if err := sqlx.GetContext(ctx, q, user, query, value); err != nil {
		return nil, notFound(err, "get user")
	}
	return user, nil
}

// ListUsers returns every account ordered by id.
func ListUsers(ctx context.Context, q sqlx.ExtContext) ([]*models.User, error) {
	var users []*models.User
	if err := sqlx.SelectContext(ctx, q, &users, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
