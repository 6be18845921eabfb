package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/prompt"
)

var createTitle string

var createCmd = &cobra.Command{
	Use:   "create <library-id>",
	Short: "Create a new workspace",
	Long: `Create an empty workspace in a library.

Examples:
  # Create a workspace
  lorectl workspace create <library-id> --title "Thesis"

  # Create interactively
  lorectl workspace create <library-id>`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "Workspace title (required)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	title := createTitle
	if title == "" {
		title, err = prompt.InputRequired("Workspace title")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	workspace, err := client.CreateWorkspace(args[0], title)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, workspace,
		fmt.Sprintf("Workspace '%s' created successfully (id: %s)", workspace.Title, workspace.ID))
}
