// Package page implements page management commands for lorectl.
package page

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for page management.
var Cmd = &cobra.Command{
	Use:   "page",
	Short: "Page management",
	Long: `Manage pages on the Loreleaf server.

Pages are markdown documents backed by files in the library tree. Pages
link to each other with [[title]] references; the link graph is kept
server-side and can be inspected per page.

Examples:
  # List pages in a library
  lorectl page list <library-id>

  # Create a page
  lorectl page create <library-id> --title "Reading List"

  # Show a page with full content
  lorectl page get <page-id>

  # Update a page's content from a file
  lorectl page edit <page-id> --content-file notes.md

  # Show forward links and backlinks
  lorectl page links <page-id>`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(draftCmd)
	Cmd.AddCommand(saveCmd)
	Cmd.AddCommand(linksCmd)
	Cmd.AddCommand(statsCmd)
}
