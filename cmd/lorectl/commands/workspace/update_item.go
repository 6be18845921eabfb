package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var (
	updateItemKind      string
	updateItemDepth     int
	updateItemAIContext bool
	updateItemCollapsed bool
)

var updateItemCmd = &cobra.Command{
	Use:   "update <workspace-id> <item-id>",
	Short: "Update a workspace item's flags",
	Long: `Update an item's depth, AI context flag, or collapsed flag.

Only the flags you pass change; the rest are left untouched.

Examples:
  # Include an item in the AI generation context
  lorectl workspace update <workspace-id> <page-id> --kind page --ai-context=true

  # Collapse an item's subtree
  lorectl workspace update <workspace-id> <page-id> --kind page --collapsed=true

  # Outdent an item
  lorectl workspace update <workspace-id> <page-id> --kind page --depth 0`,
	Args: cobra.ExactArgs(2),
	RunE: runUpdateItem,
}

func init() {
	updateItemCmd.Flags().StringVar(&updateItemKind, "kind", "page", "Item kind (page|file)")
	updateItemCmd.Flags().IntVar(&updateItemDepth, "depth", 0, "New indentation depth")
	updateItemCmd.Flags().BoolVar(&updateItemAIContext, "ai-context", false, "Include in AI generation context")
	updateItemCmd.Flags().BoolVar(&updateItemCollapsed, "collapsed", false, "Collapse the item")
}

func runUpdateItem(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	var depth *int
	var aiContext, collapsed *bool
	if cmd.Flags().Changed("depth") {
		depth = &updateItemDepth
	}
	if cmd.Flags().Changed("ai-context") {
		aiContext = &updateItemAIContext
	}
	if cmd.Flags().Changed("collapsed") {
		collapsed = &updateItemCollapsed
	}

	if depth == nil && aiContext == nil && collapsed == nil {
		return fmt.Errorf("nothing to update: pass --depth, --ai-context, or --collapsed")
	}

	item, err := client.UpdateWorkspaceItem(args[0], args[1], updateItemKind, depth, aiContext, collapsed)
	if err != nil {
		return fmt.Errorf("failed to update workspace item: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, item,
		fmt.Sprintf("%s '%s' updated", item.Kind, itemTitle(*item)))
}
