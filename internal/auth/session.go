package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

const (
	DefaultCookieName       = "session"
	DefaultDuration         = 24 * time.Hour
	DefaultRememberDuration = 30 * 24 * time.Hour

	issuer = "microblog"
)

// Options configures session cookies.
type Options struct {
	SecretKey        []byte
	CookieName       string
	Duration         time.Duration // lifetime of a browser-session login
	RememberDuration time.Duration // lifetime of a remembered login
	SecureCookie     bool
}

// Authenticator issues and resolves login sessions. The cookie carries a
// signed token naming a row in the sessions table.
type Authenticator struct {
	db   *database.DB
	opts Options
	now  func() time.Time
}

// ErrEmptySecret is returned when no signing key is configured.
var ErrEmptySecret = errors.New("session secret key is empty")

// NewAuthenticator returns an Authenticator backed by db.
func NewAuthenticator(db *database.DB, opts Options) (*Authenticator, error) {
	if len(opts.SecretKey) == 0 {
		return nil, ErrEmptySecret
	}
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.RememberDuration <= 0 {
		opts.RememberDuration = DefaultRememberDuration
	}
	return &Authenticator{db: db, opts: opts, now: time.Now}, nil
}

// CookieName is the name of the session cookie.
func (a *Authenticator) CookieName() string { return a.opts.CookieName }

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// StartSession records a new session for userID using q, which may be a
// transaction. The cookie is not written; see SetCookie.
func (a *Authenticator) StartSession(ctx context.Context, q sqlx.ExtContext, userID int64, persist bool) (*models.Session, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := a.now().UTC()
	lifetime := a.opts.Duration
	if persist {
		lifetime = a.opts.RememberDuration
	}
	s := &models.Session{
		Token:      token.String(),
		UserID:     userID,
		Persistent: persist,
		ExpiresAt:  now.Add(lifetime),
		CreatedAt:  now,
	}
	if err := database.CreateSession(ctx, q, s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetCookie writes the signed cookie for s. Persistent sessions get an
// explicit expiry so they survive browser restarts.
func (a *Authenticator) SetCookie(w http.ResponseWriter, r *http.Request, s *models.Session) error {
	claims := sessionClaims{
		SessionID: s.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(s.UserID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.opts.SecretKey)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}

	cookie := &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.opts.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if s.Persistent {
		cookie.Expires = s.ExpiresAt
		cookie.MaxAge = int(s.ExpiresAt.Sub(a.now()).Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// Login establishes a session for user and sets the cookie.
func (a *Authenticator) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User, persist bool) error {
	s, err := a.StartSession(ctx, a.db, user.ID, persist)
	if err != nil {
		return err
	}
	return a.SetCookie(w, r, s)
}

// Logout deletes the current session, if any, and expires the cookie.
func (a *Authenticator) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if claims, ok := a.parseCookie(r); ok {
		err = database.DeleteSession(ctx, a.db, claims.SessionID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.opts.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.opts.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

// Resolve returns the actor for r. A missing, forged or expired session,
// or one whose user is gone, resolves to Anonymous.
func (a *Authenticator) Resolve(ctx context.Context, r *http.Request) Actor {
	claims, ok := a.parseCookie(r)
	if !ok {
		return Anonymous
	}
	s, err := database.GetSession(ctx, a.db, claims.SessionID)
	if err != nil {
		return Anonymous
	}
	if s.Expired(a.now()) || claims.Subject != strconv.FormatInt(s.UserID, 10) {
		_ = database.DeleteSession(ctx, a.db, s.Token)
		return Anonymous
	}
	user, err := database.GetUserByID(ctx, a.db, s.UserID)
	if err != nil {
		return Anonymous
	}
	return Authenticated(user)
}

// CleanupExpired deletes every expired session.
func (a *Authenticator) CleanupExpired(ctx context.Context) (int64, error) {
	return database.DeleteExpiredSessions(ctx, a.db, a.now())
}

func (a *Authenticator) parseCookie(r *http.Request) (*sessionClaims, bool) {
	cookie, err := r.Cookie(a.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
		return a.opts.SecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || claims.SessionID == "" {
		return nil, false
	}
	return claims, true
}
