package file

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download <file-id>",
	Short: "Download a file",
	Long: `Download a file's original bytes.

Without -O the file is written under its server-side name in the
current directory. Use "-O -" to stream to stdout.

Examples:
  # Download under the original name
  lorectl file download <file-id>

  # Download to a specific path
  lorectl file download <file-id> -O paper.pdf

  # Stream to stdout
  lorectl file download <file-id> -O - | less`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output-file", "O", "", "Output path (\"-\" for stdout)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	fileID := args[0]

	if downloadOutput == "-" {
		return client.DownloadFile(fileID, os.Stdout)
	}

	dest := downloadOutput
	if dest == "" {
		file, err := client.GetFile(fileID)
		if err != nil {
			return fmt.Errorf("failed to get file: %w", err)
		}
		dest = file.FileName
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer func() { _ = out.Close() }()

	if err := client.DownloadFile(fileID, out); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("failed to download file: %w", err)
	}

	cmdutil.PrintSuccess(fmt.Sprintf("Downloaded to %s", dest))
	return nil
}
