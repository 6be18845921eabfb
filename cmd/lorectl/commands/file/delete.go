package file

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <file-id>",
	Short: "Delete a file",
	Long: `Delete a file, its companion page, and its on-disk copy.

Examples:
  # Delete a file
  lorectl file delete <file-id>

  # Delete without confirmation
  lorectl file delete <file-id> --force`,
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

	fileID := args[0]

	file, err := client.GetFile(fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	return cmdutil.RunDeleteWithConfirmation("File", file.FileName, deleteForce, func() error {
		return client.DeleteFile(fileID)
	})
}
