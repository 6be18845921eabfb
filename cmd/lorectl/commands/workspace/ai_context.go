package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var aiContextCmd = &cobra.Command{
	Use:   "ai-context <workspace-id>",
	Short: "List the AI generation context",
	Long: `List the workspace items flagged for inclusion in AI generation
context, in position order.

These are the pages and files whose content the server assembles into
the prompt context when generating a draft.

Examples:
  # Show the AI context selection
  lorectl workspace ai-context <workspace-id>

  # Show as JSON
  lorectl workspace ai-context <workspace-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runAIContext,
}

func runAIContext(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	items, err := client.ListAIContext(args[0])
	if err != nil {
		return fmt.Errorf("failed to list AI context: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, items, len(items) == 0, "No items in AI context.", ItemList(items))
}
