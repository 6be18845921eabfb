package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list <library-id>",
	Short: "List pages in a library",
	Long: `List a library's pages with content previews.

Examples:
  # List pages as table
  lorectl page list <library-id>

  # List as JSON
  lorectl page list <library-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// PageList is a list of pages for table rendering.
type PageList []apiclient.Page

// Headers implements TableRenderer.
func (pl PageList) Headers() []string {
	return []string{"ID", "TITLE", "TYPE", "PREVIEW", "UPDATED"}
}

// Rows implements TableRenderer.
func (pl PageList) Rows() [][]string {
	rows := make([][]string, 0, len(pl))
	for _, p := range pl {
		rows = append(rows, []string{
			p.ID,
			cmdutil.EmptyOr(p.Title, "(untitled)"),
			p.PageType,
			cmdutil.Truncate(p.ContentPreview, 40),
			p.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	pages, err := client.ListPages(args[0])
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, pages, len(pages) == 0, "No pages found.", PageList(pages))
}
