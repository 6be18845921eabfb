package workspace

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <workspace-id>",
	Short: "Delete a workspace",
	Long: `Delete a workspace.

Member pages and files survive; only the workspace and its membership
edges are removed. Unsaved drafts attached to the workspace are
deleted.

Examples:
  # Delete a workspace
  lorectl workspace delete <workspace-id>

  # Delete without confirmation
  lorectl workspace delete <workspace-id> --force`,
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

	workspaceID := args[0]

	workspace, err := client.GetWorkspace(workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	return cmdutil.RunDeleteWithConfirmation("Workspace", workspace.Title, deleteForce, func() error {
		return client.DeleteWorkspace(workspaceID)
	})
}
