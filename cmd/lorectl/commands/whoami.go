package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/bytesize"
	"github.com/loreleaf/loreleaf/internal/cli/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	Long: `Display the account the current session is authenticated as.

Examples:
  # Show current user
  lorectl whoami

  # Show as JSON
  lorectl whoami -o json`,
	RunE: runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	user, err := client.Me()
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, user)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, user)
	default:
		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("  Role:    %s\n", user.Role)
		fmt.Printf("  Storage: %s of %s used\n",
			bytesize.ByteSize(user.StorageUsed).String(),
			bytesize.ByteSize(user.StorageQuota).String())
		if user.LastLogin != nil {
			fmt.Printf("  Last login: %s\n", user.LastLogin.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}
