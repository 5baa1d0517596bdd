package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.InitDB(":memory:")
	require.NoError(t, err, "Failed to initialize test database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupAuthenticator(t *testing.T) (*Authenticator, *database.DB, *models.User) {
	t.Helper()
	db := setupTestDB(t)
	a, err := NewAuthenticator(db, Options{SecretKey: []byte("test-secret")})
	require.NoError(t, err)
	user, err := database.CreateUser(context.Background(), db, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	return a, db, user
}

// requestWith returns a request carrying the cookies set on rec.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", DefaultCookieName)
	return nil
}

func TestNewAuthenticatorRequiresSecret(t *testing.T) {
	_, err := NewAuthenticator(setupTestDB(t), Options{})
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestLoginResolveLogout(t *testing.T) {
	a, _, user := setupAuthenticator(t)
	ctx := context.Background()

	assert.False(t, a.Resolve(ctx, httptest.NewRequest(http.MethodGet, "/", nil)).IsAuthenticated())

	rec := httptest.NewRecorder()
	require.NoError(t, a.Login(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), user, false))

	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	actor := a.Resolve(ctx, requestWith(rec))
	require.True(t, actor.IsAuthenticated())
	assert.Equal(t, user.ID, actor.ID())

	out := httptest.NewRecorder()
	require.NoError(t, a.Logout(ctx, out, requestWith(rec)))
	expired := sessionCookie(t, out)
	assert.Equal(t, -1, expired.MaxAge)
	assert.Empty(t, expired.Value)

	// The old cookie no longer names a live session.
	assert.False(t, a.Resolve(ctx, requestWith(rec)).IsAuthenticated())

	n, err := a.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCookiePersistence(t *testing.T) {
	a, _, user := setupAuthenticator(t)
	ctx := context.Background()

	t.Run("Browser session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, a.Login(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), user, false))
		c := sessionCookie(t, rec)
		assert.Zero(t, c.MaxAge)
		assert.True(t, c.Expires.IsZero())
	})

	t.Run("Remembered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, a.Login(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), user, true))
		c := sessionCookie(t, rec)
		assert.Greater(t, c.MaxAge, int((DefaultRememberDuration - time.Hour).Seconds()))
	})
}

func TestResolveRejectsTamperedCookie(t *testing.T) {
	a, _, user := setupAuthenticator(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	require.NoError(t, a.Login(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), user, false))
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"})
	assert.False(t, a.Resolve(ctx, req).IsAuthenticated())

	other, err := NewAuthenticator(a.db, Options{SecretKey: []byte("another-secret")})
	require.NoError(t, err)
	assert.False(t, other.Resolve(ctx, requestWith(rec)).IsAuthenticated())
}

func TestResolveExpiredSession(t *testing.T) {
	a, _, user := setupAuthenticator(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	require.NoError(t, a.Login(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), user, false))
	require.True(t, a.Resolve(ctx, requestWith(rec)).IsAuthenticated())

	later := time.Now().Add(DefaultDuration + time.Minute)
	a.now = func() time.Time { return later }
	assert.False(t, a.Resolve(ctx, requestWith(rec)).IsAuthenticated())

	n, err := a.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestResolveDeletedUser(t *testing.T) {
	a, db, user := setupAuthenticator(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	require.NoError(t, a.Login(ctx, rec, httptest.NewRequest(http.MethodPost, "/login", nil), user, false))

	_, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", user.ID)
	require.NoError(t, err)
	assert.False(t, a.Resolve(ctx, requestWith(rec)).IsAuthenticated())
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, ActorFrom(ctx).IsAuthenticated())
	assert.Zero(t, ActorFrom(ctx).ID())

	u := &models.User{ID: 3, Username: "bob"}
	ctx = WithActor(ctx, Authenticated(u))
	got, ok := ActorFrom(ctx).User()
	require.True(t, ok)
	assert.Equal(t, u, got)
}
