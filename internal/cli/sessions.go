package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage login sessions",
}

var sessionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete expired sessions",
	Long:  "Delete expired login sessions (typically used by cron)",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		n, err := svc.Auth.CleanupExpired(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to cleanup sessions: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsCleanupCmd)
}
