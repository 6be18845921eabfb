// Package workspace implements workspace management commands for lorectl.
package workspace

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for workspace management.
var Cmd = &cobra.Command{
	Use:   "workspace",
	Short: "Workspace management",
	Long: `Manage workspaces on the Loreleaf server.

A workspace is an ordered collection of pages and files from one
library. Items carry a position, an indentation depth, and flags for
collapsing and for inclusion in the AI generation context.

Examples:
  # List workspaces in a library
  lorectl workspace list <library-id>

  # Create a workspace
  lorectl workspace create <library-id> --title "Thesis"

  # List workspace items in order
  lorectl workspace items <workspace-id>

  # Add a page to a workspace
  lorectl workspace add <workspace-id> <page-id> --kind page

  # Show the AI context selection
  lorectl workspace ai-context <workspace-id>`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(favoriteCmd)
	Cmd.AddCommand(duplicateCmd)
	Cmd.AddCommand(itemsCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(moveCmd)
	Cmd.AddCommand(updateItemCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(aiContextCmd)
}
