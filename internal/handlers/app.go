package handlers

import (
	"io"
	"log"

	"github.com/microblog/app/internal/auth"
	"github.com/microblog/app/internal/database"
)

const defaultPerPage = 3

// App carries the dependencies shared by every handler.
type App struct {
	DB        *database.DB
	Auth      *auth.Authenticator
	Hasher    auth.PasswordHasher
	Templates Templates
	PerPage   int

	InfoLog  *log.Logger
	ErrorLog *log.Logger
}

// Config holds the optional App settings.
type Config struct {
	PerPage    int
	BcryptCost int
	InfoLog    *log.Logger
	ErrorLog   *log.Logger
}

// New returns an App. Nil loggers discard output.
func New(db *database.DB, authn *auth.Authenticator, templates Templates, cfg Config) *App {
	if cfg.PerPage < 1 {
		cfg.PerPage = defaultPerPage
	}
	if cfg.InfoLog == nil {
		cfg.InfoLog = log.New(io.Discard, "", 0)
	}
	if cfg.ErrorLog == nil {
		cfg.ErrorLog = log.New(io.Discard, "", 0)
	}
	return &App{
		DB:        db,
		Auth:      authn,
		Hasher:    auth.PasswordHasher{Cost: cfg.BcryptCost},
		Templates: templates,
		PerPage:   cfg.PerPage,
		InfoLog:   cfg.InfoLog,
		ErrorLog:  cfg.ErrorLog,
	}
}
