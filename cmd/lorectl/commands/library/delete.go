package library

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <library-id>",
	Short: "Delete a library",
	Long: `Delete a library.

The library is soft-deleted and its directory tree is archived on the
server, so the files survive outside the application.

Examples:
  # Delete a library
  lorectl library delete <library-id>

  # Delete without confirmation
  lorectl library delete <library-id> --force`,
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

	libraryID := args[0]

	// Resolve the name for the confirmation prompt
	library, err := client.GetLibrary(libraryID)
	if err != nil {
		return fmt.Errorf("failed to get library: %w", err)
	}

	return cmdutil.RunDeleteWithConfirmation("Library", library.Name, deleteForce, func() error {
		return client.DeleteLibrary(libraryID)
	})
}
