package file

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess <file-id>",
	Short: "Re-run metadata extraction",
	Long: `Re-run metadata extraction for a file.

Useful after a processor failure, or when a newer server version
extracts more metadata than the one that handled the upload.

Examples:
  # Reprocess a file
  lorectl file reprocess <file-id>`,
	Args: cobra.ExactArgs(1),
	RunE: runReprocess,
}

func runReprocess(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	file, err := client.ReprocessFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to reprocess file: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, file,
		fmt.Sprintf("File '%s' reprocessed (status: %s)", file.FileName, file.ProcessingStatus))
}
