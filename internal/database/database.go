package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver ("pgx")
	_ "github.com/mattn/go-sqlite3"    // SQLite driver ("sqlite3")
	_ "modernc.org/sqlite"             // pure-Go SQLite driver ("sqlite")
)

// Dialect names a supported database backend.
type Dialect string

const (
	SQLite     Dialect = "sqlite3"
	SQLitePure Dialect = "sqlite"
	Postgres   Dialect = "postgres"
)

// ParseDialect validates a configured driver name.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case SQLite, SQLitePure, Postgres:
		return d, nil
	case "":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// driverName is the database/sql driver registered for the dialect.
func (d Dialect) driverName() string {
	if d == Postgres {
		return "pgx"
	}
	return string(d)
}

// dsn adds the connection options every pooled connection needs. SQLite
// pragmas are per-connection, so they have to travel in the DSN.
func (d Dialect) dsn(dataSourceName string) string {
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	// Write transactions read before they write; a deferred BEGIN would let
	// two of them deadlock on the lock upgrade instead of waiting.
	switch d {
	case SQLite:
		opts := "_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
		if !isMemory(dataSourceName) {
			opts += "&_journal_mode=WAL"
		}
		return dataSourceName + sep + opts
	case SQLitePure:
		opts := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"
		if !isMemory(dataSourceName) {
			opts += "&_pragma=journal_mode(WAL)"
		}
		return dataSourceName + sep + opts
	default:
		return dataSourceName
	}
}

// DB is the shared persistence handle.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

// Open connects to the database and creates the schema if needed.
func Open(ctx context.Context, driver, dataSourceName string) (*DB, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.ConnectContext(ctx, dialect.driverName(), dialect.dsn(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", dialect, err)
	}

	// Every new connection to :memory: is a new, empty database.
	if dialect != Postgres && isMemory(dataSourceName) {
		conn.SetMaxOpenConns(1)
	}

	db := &DB{DB: conn, Dialect: dialect}
	if err := db.createSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// InitDB opens a SQLite database with the default driver.
func InitDB(dataSourceName string) (*DB, error) {
	return Open(context.Background(), string(SQLite), dataSourceName)
}

func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaFor(db.Dialect) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit transaction: %w", cerr)
		}
	}()
	return fn(tx)
}

func isMemory(dataSourceName string) bool {
	return strings.HasPrefix(dataSourceName, ":memory:") || strings.Contains(dataSourceName, "mode=memory")
}
