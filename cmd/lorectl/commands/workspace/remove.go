package workspace

import (
	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var (
	removeKind  string
	removeForce bool
)

var removeCmd = &cobra.Command{
	Use:   "remove <workspace-id> <item-id>",
	Short: "Remove an item from a workspace",
	Long: `Remove a page or file from a workspace.

Only the membership edge is removed; the page or file itself survives.

Examples:
  # Remove a page
  lorectl workspace remove <workspace-id> <page-id> --kind page

  # Remove without confirmation
  lorectl workspace remove <workspace-id> <file-id> --kind file --force`,
	Args: cobra.ExactArgs(2),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVar(&removeKind, "kind", "page", "Item kind (page|file)")
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	workspaceID, itemID := args[0], args[1]

	return cmdutil.RunDeleteWithConfirmation("Workspace item", itemID, removeForce, func() error {
		return client.RemoveWorkspaceItem(workspaceID, itemID, removeKind)
	})
}
