package user

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/bytesize"
)

var quotaCmd = &cobra.Command{
	Use:   "quota <username> <size>",
	Short: "Set a user's storage quota",
	Long: `Set a user's storage quota.

The size accepts human-readable values like 500MB, 5GB, or 1TB.
Lowering a quota below current usage blocks new uploads but leaves
existing files alone.

Examples:
  # Set a 5 GB quota
  lorectl user quota alice 5GB

  # Set a 500 MB quota
  lorectl user quota alice 500MB`,
	Args: cobra.ExactArgs(2),
	RunE: runQuota,
}

func runQuota(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	username := args[0]

	size, err := bytesize.ParseByteSize(args[1])
	if err != nil {
		return fmt.Errorf("invalid quota: %w", err)
	}

	if err := client.SetUserQuota(username, size.Int64()); err != nil {
		return fmt.Errorf("failed to set quota: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Quota for '%s' set to %s", username, size.String()))
	return nil
}
