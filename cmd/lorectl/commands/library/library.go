// Package library implements library management commands for lorectl.
package library

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for library management.
var Cmd = &cobra.Command{
	Use:   "library",
	Short: "Library management",
	Long: `Manage libraries on the Loreleaf server.

A library is the top-level container for pages, files, and workspaces,
backed by a directory tree on the server.

Examples:
  # List all libraries
  lorectl library list

  # Create a new library
  lorectl library create "Research Notes"

  # Force a filesystem sync
  lorectl library sync <library-id>

  # Delete a library
  lorectl library delete <library-id>`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(syncCmd)
}
