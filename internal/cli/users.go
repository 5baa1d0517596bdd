package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/microblog/app/internal/auth"
	"github.com/microblog/app/internal/database"
)

// readPassword reads a line from the terminal without echo.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username> <email>",
	Short: "Add a new user",
	Long:  "Add a new user. The password is prompted for twice and must pass the same rules as the sign-up form.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		svc, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		fmt.Fprint(out, "Enter password: ")
		password, err := readPassword()
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		fmt.Fprint(out, "Confirm password: ")
		confirm, err := readPassword()
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		hasher := auth.PasswordHasher{Cost: cfg.Auth.BcryptCost}
		user, err := auth.Register(cmd.Context(), svc.DB, hasher, auth.Registration{
			Username: args[0],
			Email:    args[1],
			Password: string(password),
			Confirm:  string(confirm),
		})
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message)
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintf(out, "User '%s' created successfully (ID %d)\n", user.Username, user.ID)
		return nil
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		svc, err := initServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		users, err := database.ListUsers(cmd.Context(), svc.DB)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tPOSTS\tCREATED AT")
		for _, user := range users {
			posts, err := database.CountPostsByUser(cmd.Context(), svc.DB, user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
				user.ID,
				user.Username,
				user.Email,
				posts,
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersCmd.AddCommand(usersListCmd)
}
