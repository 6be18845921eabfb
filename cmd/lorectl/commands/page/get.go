package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
)

var getContentOnly bool

var getCmd = &cobra.Command{
	Use:   "get <page-id>",
	Short: "Show a page",
	Long: `Display a page with its full content.

Examples:
  # Show a page
  lorectl page get <page-id>

  # Print only the raw content, suitable for piping
  lorectl page get <page-id> --content

  # Show as JSON
  lorectl page get <page-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().BoolVar(&getContentOnly, "content", false, "Print only the page content")
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	page, err := client.GetPage(args[0])
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	if getContentOnly {
		fmt.Print(page.Content)
		return nil
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, page)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, page)
	default:
		fmt.Printf("Title:   %s\n", cmdutil.EmptyOr(page.Title, "(untitled)"))
		fmt.Printf("ID:      %s\n", page.ID)
		fmt.Printf("Type:    %s\n", page.PageType)
		fmt.Printf("Library: %s\n", page.LibraryID)
		fmt.Printf("Updated: %s\n", page.UpdatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
		fmt.Println(page.Content)
	}

	return nil
}
