package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var (
	moveKind     string
	movePosition int
	moveDepth    int
)

var moveCmd = &cobra.Command{
	Use:   "move <workspace-id> <item-id>",
	Short: "Move a workspace item",
	Long: `Move an item to a new position, optionally changing its depth.

Other items close ranks around the move; positions stay contiguous.

Examples:
  # Move to the top
  lorectl workspace move <workspace-id> <page-id> --kind page --position 0

  # Move and indent
  lorectl workspace move <workspace-id> <page-id> --kind page --position 2 --depth 1`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().StringVar(&moveKind, "kind", "page", "Item kind (page|file)")
	moveCmd.Flags().IntVar(&movePosition, "position", 0, "Target position (required)")
	moveCmd.Flags().IntVar(&moveDepth, "depth", 0, "New indentation depth")
	_ = moveCmd.MarkFlagRequired("position")
}

func runMove(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	var depth *int
	if cmd.Flags().Changed("depth") {
		depth = &moveDepth
	}

	item, err := client.MoveWorkspaceItem(args[0], args[1], moveKind, movePosition, depth)
	if err != nil {
		return fmt.Errorf("failed to move workspace item: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, item,
		fmt.Sprintf("%s '%s' moved to position %d", item.Kind, itemTitle(*item), item.Position))
}
