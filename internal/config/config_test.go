package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blog.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.HTTP.Addr)
	assert.Equal(t, DefaultDriver, cfg.Database.Driver)
	assert.Equal(t, DefaultDSN, cfg.Database.DSN)
	assert.Equal(t, DefaultPerPage, cfg.Feed.PerPage)
	assert.Equal(t, DefaultRememberDuration, cfg.Session.RememberDuration)
	assert.Empty(t, cfg.ConfigPath)

	assert.True(t, cfg.GeneratedSecret)
	assert.Len(t, cfg.Session.SecretKey, 64)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: "127.0.0.1:9000"
  read_timeout: 5s
database:
  driver: postgres
  dsn: "postgres://blog@localhost/blog"
session:
  secret_key: "file-secret"
  duration: 2h
feed:
  per_page: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Session.Duration)
	assert.Equal(t, 10, cfg.Feed.PerPage)
	assert.Equal(t, "file-secret", cfg.Session.SecretKey)
	assert.False(t, cfg.GeneratedSecret)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "feed:\n  per_page: 10\n")
	t.Setenv("BLOG_FEED_PER_PAGE", "5")
	t.Setenv("BLOG_SESSION_SECRET_KEY", "env-secret")
	t.Setenv("BLOG_DATABASE_DRIVER", "sqlite")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Feed.PerPage)
	assert.Equal(t, "env-secret", cfg.Session.SecretKey)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Unknown driver", "database:\n  driver: oracle\n"},
		{"Zero per page", "feed:\n  per_page: 0\n"},
		{"Bcrypt cost too low", "auth:\n  bcrypt_cost: 1\n"},
		{"Bcrypt cost too high", "auth:\n  bcrypt_cost: 99\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
