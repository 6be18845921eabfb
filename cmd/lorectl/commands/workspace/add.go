package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var (
	addKind     string
	addPosition int
	addDepth    int
)

var addCmd = &cobra.Command{
	Use:   "add <workspace-id> <item-id>",
	Short: "Add a page or file to a workspace",
	Long: `Add a page or file to a workspace.

Without --position the item is appended; with it the item is inserted
and later items shift down.

Examples:
  # Append a page
  lorectl workspace add <workspace-id> <page-id> --kind page

  # Insert a file at the top
  lorectl workspace add <workspace-id> <file-id> --kind file --position 0

  # Add nested under the previous item
  lorectl workspace add <workspace-id> <page-id> --kind page --depth 1`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addKind, "kind", "page", "Item kind (page|file)")
	addCmd.Flags().IntVar(&addPosition, "position", -1, "Insert position (default: append)")
	addCmd.Flags().IntVar(&addDepth, "depth", 0, "Indentation depth")
}

func runAdd(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	var position *int
	if cmd.Flags().Changed("position") {
		position = &addPosition
	}

	item, err := client.AddWorkspaceItem(args[0], args[1], addKind, position, addDepth)
	if err != nil {
		return fmt.Errorf("failed to add workspace item: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, item,
		fmt.Sprintf("%s '%s' added at position %d", item.Kind, itemTitle(*item), item.Position))
}
