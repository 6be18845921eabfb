package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list <library-id>",
	Short: "List workspaces in a library",
	Long: `List a library's workspaces, favorites first.

Examples:
  # List workspaces as table
  lorectl workspace list <library-id>

  # List as JSON
  lorectl workspace list <library-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// WorkspaceList is a list of workspaces for table rendering.
type WorkspaceList []apiclient.Workspace

// Headers implements TableRenderer.
func (wl WorkspaceList) Headers() []string {
	return []string{"ID", "TITLE", "FAVORITE", "LAST ACCESSED"}
}

// Rows implements TableRenderer.
func (wl WorkspaceList) Rows() [][]string {
	rows := make([][]string, 0, len(wl))
	for _, w := range wl {
		lastAccessed := "-"
		if w.LastAccessedAt != nil {
			lastAccessed = w.LastAccessedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{w.ID, w.Title, cmdutil.BoolToYesNo(w.IsFavorited), lastAccessed})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	workspaces, err := client.ListWorkspaces(args[0])
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, workspaces, len(workspaces) == 0, "No workspaces found.", WorkspaceList(workspaces))
}
