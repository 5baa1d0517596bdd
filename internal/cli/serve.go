package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/microblog/app/internal/handlers"
	"github.com/microblog/app/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.GeneratedSecret {
			errorLog.Printf("session.secret_key is not set; using a random key, sessions will not survive a restart")
		}

		svc, err := initServices(ctx)
		if err != nil {
			return err
		}
		defer svc.Close()
		infoLog.Printf("Database connected: driver=%s", cfg.Database.Driver)

		if n, err := svc.Auth.CleanupExpired(ctx); err != nil {
			infoLog.Printf("Warning: failed to cleanup expired sessions: %v", err)
		} else if n > 0 {
			infoLog.Printf("Removed %d expired sessions", n)
		}

		templates, err := handlers.LoadTemplates(web.Templates())
		if err != nil {
			return fmt.Errorf("failed to load templates: %w", err)
		}
		app := handlers.New(svc.DB, svc.Auth, templates, handlers.Config{
			PerPage:    cfg.Feed.PerPage,
			BcryptCost: cfg.Auth.BcryptCost,
			InfoLog:    infoLog,
			ErrorLog:   errorLog,
		})

		srv := &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      app.Routes(),
			ErrorLog:     errorLog,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		}

		serverErr := make(chan error, 1)
		go func() {
			infoLog.Printf("Starting server on %s", cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		select {
		case err := <-serverErr:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			infoLog.Printf("Shutting down gracefully...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		infoLog.Printf("Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
