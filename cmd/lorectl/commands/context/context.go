// Package context implements context management commands for lorectl.
package context

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for context management.
var Cmd = &cobra.Command{
	Use:   "context",
	Short: "Manage server contexts",
	Long: `Manage saved server contexts.

A context stores the server URL and credentials for one Loreleaf server.
Switching contexts lets you work against multiple servers without
re-entering credentials.

Examples:
  # List all contexts
  lorectl context list

  # Show the current context
  lorectl context current

  # Switch to another context
  lorectl context use production

  # Delete a context
  lorectl context delete staging`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(currentCmd)
	Cmd.AddCommand(useCmd)
	Cmd.AddCommand(deleteCmd)
}
