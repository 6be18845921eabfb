// Package user implements user administration commands for lorectl.
package user

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for user administration.
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "User administration",
	Long: `Manage user accounts on the Loreleaf server.

These operations require admin privileges.

Examples:
  # List all users
  lorectl user list

  # Create a user
  lorectl user create alice

  # Reset a password
  lorectl user password alice

  # Set a storage quota
  lorectl user quota alice 5GB

  # Delete a user
  lorectl user delete alice`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(passwordCmd)
	Cmd.AddCommand(quotaCmd)
}
