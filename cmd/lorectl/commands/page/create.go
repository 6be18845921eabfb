package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/prompt"
)

var (
	createTitle       string
	createContent     string
	createContentFile string
)

var createCmd = &cobra.Command{
	Use:   "create <library-id>",
	Short: "Create a new page",
	Long: `Create a saved page with a backing markdown file in the library tree.

Examples:
  # Create an empty page
  lorectl page create <library-id> --title "Reading List"

  # Create with inline content
  lorectl page create <library-id> --title "Todo" --content "- [ ] water plants"

  # Create with content from a file
  lorectl page create <library-id> --title "Notes" --content-file notes.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "Page title (required)")
	createCmd.Flags().StringVar(&createContent, "content", "", "Page content")
	createCmd.Flags().StringVar(&createContentFile, "content-file", "", "Read page content from a file")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	title := createTitle
	if title == "" {
		title, err = prompt.InputRequired("Page title")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	if createContent != "" && createContentFile != "" {
		return fmt.Errorf("--content and --content-file are mutually exclusive")
	}

	content := createContent
	if createContentFile != "" {
		data, err := os.ReadFile(createContentFile)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		content = string(data)
	}

	page, err := client.CreatePage(args[0], title, content)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, page,
		fmt.Sprintf("Page '%s' created successfully (id: %s)", page.Title, page.ID))
}
