package page

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:   "delete <page-id>",
	Short: "Delete a page",
	Long: `Delete a page and its backing file.

Links pointing at the deleted page become broken links; they resolve
again if a page with the same title is created later.

Examples:
  # Delete a page
  lorectl page delete <page-id>

  # Delete without confirmation
  lorectl page delete <page-id> --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	pageID := args[0]

	page, err := client.GetPage(pageID)
	if err != nil {
		return fmt.Errorf("failed to get page: %w", err)
	}

	name := page.Title
	if name == "" {
		name = pageID
	}

	return cmdutil.RunDeleteWithConfirmation("Page", name, deleteForce, func() error {
		return client.DeletePage(pageID)
	})
}
