package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var duplicateTitle string

var duplicateCmd = &cobra.Command{
	Use:   "duplicate <workspace-id>",
	Short: "Duplicate a workspace",
	Long: `Copy a workspace and its item list under a new title.

The copy references the same pages and files; nothing is duplicated on
disk.

Examples:
  # Duplicate with a default "(copy)" title
  lorectl workspace duplicate <workspace-id>

  # Duplicate under an explicit title
  lorectl workspace duplicate <workspace-id> --title "Thesis v2"`,
	Args: cobra.ExactArgs(1),
	RunE: runDuplicate,
}

func init() {
	duplicateCmd.Flags().StringVar(&duplicateTitle, "title", "", "Title for the copy (default: original title + \" (copy)\")")
}

func runDuplicate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	workspace, err := client.DuplicateWorkspace(args[0], duplicateTitle)
	if err != nil {
		return fmt.Errorf("failed to duplicate workspace: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, workspace,
		fmt.Sprintf("Workspace duplicated as '%s' (id: %s)", workspace.Title, workspace.ID))
}
