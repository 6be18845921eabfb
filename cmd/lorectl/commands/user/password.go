package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/prompt"
)

var passwordValue string

var passwordCmd = &cobra.Command{
	Use:   "password <username>",
	Short: "Reset a user's password",
	Long: `Reset a user's password.

Resetting a password invalidates the user's existing sessions.

Examples:
  # Reset a password, prompting for the new one
  lorectl user password alice

  # Reset with the password on the command line (less secure)
  lorectl user password alice -p newsecret`,
	Args: cobra.ExactArgs(1),
	RunE: runPassword,
}

func init() {
	passwordCmd.Flags().StringVarP(&passwordValue, "password", "p", "", "New password (prompted if not provided)")
}

func runPassword(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	username := args[0]

	password := passwordValue
	if password == "" {
		password, err = prompt.PasswordWithConfirmation("New password", "Confirm password", 8)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	if err := client.ResetUserPassword(username, password); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Password for '%s' reset successfully", username))
	return nil
}
