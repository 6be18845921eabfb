package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
)

var getCmd = &cobra.Command{
	Use:   "get <workspace-id>",
	Short: "Show a workspace",
	Long: `Display details of a single workspace.

Examples:
  # Show a workspace
  lorectl workspace get <workspace-id>

  # Show as JSON
  lorectl workspace get <workspace-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	workspace, err := client.GetWorkspace(args[0])
	if err != nil {
		return fmt.Errorf("failed to get workspace: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, workspace)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, workspace)
	default:
		lastAccessed := "-"
		if workspace.LastAccessedAt != nil {
			lastAccessed = workspace.LastAccessedAt.Format("2006-01-02 15:04:05")
		}
		return output.SimpleTable(os.Stdout, [][2]string{
			{"ID", workspace.ID},
			{"Title", workspace.Title},
			{"Library", workspace.LibraryID},
			{"Favorite", cmdutil.BoolToYesNo(workspace.IsFavorited)},
			{"Last accessed", lastAccessed},
			{"Created", workspace.CreatedAt.Format("2006-01-02 15:04:05")},
		})
	}
}
