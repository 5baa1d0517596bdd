package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = fmt.Errorf("record not found: %w", sql.ErrNoRows)

	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already taken")
)

const pgUniqueViolation = "23505"

// isUniqueViolation recognises UNIQUE constraint failures from every
// supported driver.
func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pureErr *moderncsqlite.Error
	if errors.As(err, &pureErr) {
		return pureErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE ||
			pureErr.Code() == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// userConstraintError maps a failed users insert to the duplicate sentinel
// for the column that collided.
func userConstraintError(err error) error {
	if !isUniqueViolation(err) {
		return fmt.Errorf("create user: %w", err)
	}
	msg := err.Error()
	if strings.Contains(msg, "email") {
		return ErrDuplicateEmail
	}
	if strings.Contains(msg, "username") {
		return ErrDuplicateUsername
	}
	return fmt.Errorf("create user: %w", err)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", what, err)
}
