package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/prompt"
)

var saveTitle string

var saveCmd = &cobra.Command{
	Use:   "save <page-id>",
	Short: "Save a draft as a page",
	Long: `Convert a workspace draft into a saved page under the given title.

The page gets a backing file in the library tree and its [[title]]
links are extracted.

Examples:
  # Save a draft
  lorectl page save <page-id> --title "Meeting Notes"`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveTitle, "title", "", "Title for the saved page (required)")
}

func runSave(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	title := saveTitle
	if title == "" {
		title, err = prompt.InputRequired("Page title")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	page, err := client.SavePageDraft(args[0], title)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, page,
		fmt.Sprintf("Draft saved as '%s' (id: %s)", page.Title, page.ID))
}
