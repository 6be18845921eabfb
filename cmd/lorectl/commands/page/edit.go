package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var (
	editTitle       string
	editContent     string
	editContentFile string
)

var editCmd = &cobra.Command{
	Use:   "edit <page-id>",
	Short: "Update a page",
	Long: `Update a page's title and/or content.

Only the fields you pass change; the rest are left untouched. When the
content changes, the server re-extracts [[title]] links and reports the
result.

Examples:
  # Rename a page
  lorectl page edit <page-id> --title "New Title"

  # Replace content from a file
  lorectl page edit <page-id> --content-file notes.md

  # Replace content inline
  lorectl page edit <page-id> --content "See [[Reading List]]"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editTitle, "title", "", "New page title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New page content")
	editCmd.Flags().StringVar(&editContentFile, "content-file", "", "Read new page content from a file")
}

func runEdit(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	if editContent != "" && editContentFile != "" {
		return fmt.Errorf("--content and --content-file are mutually exclusive")
	}

	var title, content *string
	if cmd.Flags().Changed("title") {
		title = &editTitle
	}
	if cmd.Flags().Changed("content") {
		content = &editContent
	}
	if editContentFile != "" {
		data, err := os.ReadFile(editContentFile)
		if err != nil {
			return fmt.Errorf("failed to read content file: %w", err)
		}
		s := string(data)
		content = &s
	}

	if title == nil && content == nil {
		return fmt.Errorf("nothing to update: pass --title, --content, or --content-file")
	}

	result, err := client.UpdatePage(args[0], title, content)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}

	msg := fmt.Sprintf("Page '%s' updated successfully", result.Page.Title)
	if result.Links != nil {
		msg = fmt.Sprintf("%s (%d links, %d resolved, %d broken)",
			msg, result.Links.LinksFound, result.Links.LinksResolved, result.Links.BrokenLinks)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, result, msg)
}
