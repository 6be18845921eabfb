package workspace

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var itemsCmd = &cobra.Command{
	Use:   "items <workspace-id>",
	Short: "List workspace items",
	Long: `List a workspace's items in position order.

Indentation in the table reflects each item's depth.

Examples:
  # List items as table
  lorectl workspace items <workspace-id>

  # List as JSON
  lorectl workspace items <workspace-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runItems,
}

// ItemList is a list of workspace items for table rendering.
type ItemList []apiclient.WorkspaceItem

// Headers implements TableRenderer.
func (il ItemList) Headers() []string {
	return []string{"POS", "KIND", "TITLE", "ITEM ID", "AI", "COLLAPSED"}
}

// Rows implements TableRenderer.
func (il ItemList) Rows() [][]string {
	rows := make([][]string, 0, len(il))
	for _, item := range il {
		rows = append(rows, []string{
			fmt.Sprintf("%d", item.Position),
			item.Kind,
			strings.Repeat("  ", item.Depth) + itemTitle(item),
			item.ItemID,
			cmdutil.BoolToYesNo(item.IsInAIContext),
			cmdutil.BoolToYesNo(item.IsCollapsed),
		})
	}
	return rows
}

// itemTitle picks the display title for a membership edge.
func itemTitle(item apiclient.WorkspaceItem) string {
	switch item.Kind {
	case "page":
		return cmdutil.EmptyOr(item.PageTitle, "(untitled)")
	case "file":
		if item.FileTitle != "" {
			return item.FileTitle
		}
		return item.FileName
	}
	return item.ItemID
}

func runItems(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	items, err := client.ListWorkspaceItems(args[0])
	if err != nil {
		return fmt.Errorf("failed to list workspace items: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, items, len(items) == 0, "Workspace is empty.", ItemList(items))
}
