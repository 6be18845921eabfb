package user

import (
	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user",
	Long: `Delete a user account.

The user's on-disk tree is archived, not destroyed.

Examples:
  # Delete a user
  lorectl user delete alice

  # Delete without confirmation
  lorectl user delete alice --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	username := args[0]

	return cmdutil.RunDeleteWithConfirmation("User", username, deleteForce, func() error {
		return client.DeleteUser(username)
	})
}
