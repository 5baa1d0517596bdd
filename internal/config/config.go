package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/microblog/app/internal/database"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Feed     FeedConfig     `mapstructure:"feed"`

	// Set by Load
	ConfigPath      string `mapstructure:"-"`
	GeneratedSecret bool   `mapstructure:"-"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3", "sqlite" or "postgres"
	DSN    string `mapstructure:"dsn"`
}

type SessionConfig struct {
	SecretKey        string        `mapstructure:"secret_key"`
	CookieName       string        `mapstructure:"cookie_name"`
	Duration         time.Duration `mapstructure:"duration"`
	RememberDuration time.Duration `mapstructure:"remember_duration"`
	SecureCookie     bool          `mapstructure:"secure_cookie"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type FeedConfig struct {
	PerPage int `mapstructure:"per_page"`
}

const (
	DefaultConfigPath       = "blog.yml"
	DefaultAddr             = ":8080"
	DefaultReadTimeout      = 10 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	DefaultDriver           = "sqlite3"
	DefaultDSN              = "blog.db"
	DefaultCookieName       = "session"
	DefaultSessionDuration  = 24 * time.Hour
	DefaultRememberDuration = 720 * time.Hour
	DefaultBcryptCost       = bcrypt.DefaultCost
	DefaultPerPage          = 3

	EnvPrefix = "BLOG"
)

// Load reads configuration from configPath and BLOG_* environment
// variables. An empty configPath falls back to DefaultConfigPath, which
// may be absent; an explicit path must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := configPath
	if path == "" {
		path = DefaultConfigPath
	}
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	case configPath != "" || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file: %w", statErr)
	default:
		path = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = path

	if cfg.Session.SecretKey == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.Session.SecretKey = secret
		cfg.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", DefaultAddr)
	v.SetDefault("http.read_timeout", DefaultReadTimeout)
	v.SetDefault("http.write_timeout", DefaultWriteTimeout)
	v.SetDefault("http.idle_timeout", DefaultIdleTimeout)
	v.SetDefault("database.driver", DefaultDriver)
	v.SetDefault("database.dsn", DefaultDSN)
	v.SetDefault("session.secret_key", "")
	v.SetDefault("session.cookie_name", DefaultCookieName)
	v.SetDefault("session.duration", DefaultSessionDuration)
	v.SetDefault("session.remember_duration", DefaultRememberDuration)
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("feed.per_page", DefaultPerPage)
}

func (c *Config) Validate() error {
	if _, err := database.ParseDialect(c.Database.Driver); err != nil {
		return fmt.Errorf("database.driver: %w", err)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}
	if c.Feed.PerPage < 1 {
		return fmt.Errorf("feed.per_page must be at least 1, got %d", c.Feed.PerPage)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if c.Session.Duration <= 0 || c.Session.RememberDuration <= 0 {
		return fmt.Errorf("session durations must be positive")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
