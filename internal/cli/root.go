package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/microblog/app/internal/auth"
	"github.com/microblog/app/internal/config"
	"github.com/microblog/app/internal/database"
)

var (
	cfgFile string
	cfg     *config.Config

	infoLog  = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "microblog",
	Short: "Microblog - a small multi-user blog",
	Long: `Microblog serves a multi-user blog where people register, write
short posts and browse a paginated feed.

Configuration is read from blog.yml (or --config) and BLOG_* environment
variables, e.g. BLOG_DATABASE_DSN or BLOG_HTTP_ADDR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultConfigPath+" if present)")
}

// services are the long-lived dependencies shared by the commands.
type services struct {
	DB   *database.DB
	Auth *auth.Authenticator
}

func (s *services) Close() error {
	return s.DB.Close()
}

// initServices opens the database and builds the authenticator from cfg.
func initServices(ctx context.Context) (*services, error) {
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	authn, err := auth.NewAuthenticator(db, auth.Options{
		SecretKey:        []byte(cfg.Session.SecretKey),
		CookieName:       cfg.Session.CookieName,
		Duration:         cfg.Session.Duration,
		RememberDuration: cfg.Session.RememberDuration,
		SecureCookie:     cfg.Session.SecureCookie,
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &services{DB: db, Auth: authn}, nil
}
