package database

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		image_file TEXT NOT NULL DEFAULT 'default.jpg',
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL CHECK (length(content) >= 1),
		date_posted DATETIME NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		persistent BOOLEAN NOT NULL DEFAULT 0,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_date_posted ON posts(date_posted)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id, date_posted)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		email VARCHAR(150) NOT NULL UNIQUE,
		image_file VARCHAR(20) NOT NULL DEFAULT 'default.jpg',
		password_hash VARCHAR(150) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(10000) NOT NULL,
		content TEXT NOT NULL CHECK (char_length(content) >= 1),
		date_posted TIMESTAMPTZ NOT NULL,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token VARCHAR(64) PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		persistent BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_date_posted ON posts(date_posted)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id, date_posted)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,
}

func schemaFor(d Dialect) []string {
	if d == Postgres {
		return postgresSchema
	}
	return sqliteSchema
}
