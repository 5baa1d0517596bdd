package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microblog/app/internal/database"
)

// setupCLI points the commands at a fresh SQLite file and answers password
// prompts from passwords, in order.
func setupCLI(t *testing.T, passwords ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	dsn := filepath.Join(t.TempDir(), "blog.db")
	t.Setenv("BLOG_DATABASE_DSN", dsn)
	t.Setenv("BLOG_AUTH_BCRYPT_COST", "4")

	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func() ([]byte, error) {
		require.NotEmpty(t, passwords, "unexpected password prompt")
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
	return dsn
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsersAddAndList(t *testing.T) {
	dsn := setupCLI(t, "longpass1", "longpass1", "short", "short")

	out, err := run(t, "users", "add", "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "User 'alice' created successfully")

	_, err = run(t, "users", "add", "bob", "bob@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password must be at least 7 characters.")

	out, err = run(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice@example.com")
	assert.NotContains(t, out, "bob")

	db, err := database.InitDB(dsn)
	require.NoError(t, err)
	defer db.Close()
	users, err := database.ListUsers(context.Background(), db)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUsersListEmpty(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No users found")
}

func TestSessionsCleanup(t *testing.T) {
	setupCLI(t)
	out, err := run(t, "sessions", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired sessions")
}

func TestInvalidConfig(t *testing.T) {
	setupCLI(t)
	t.Setenv("BLOG_DATABASE_DRIVER", "oracle")
	_, err := run(t, "users", "list")
	assert.Error(t, err)
}
