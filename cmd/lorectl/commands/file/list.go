package file

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/bytesize"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list <library-id>",
	Short: "List files in a library",
	Long: `List a library's uploaded files.

Examples:
  # List files as table
  lorectl file list <library-id>

  # List as JSON
  lorectl file list <library-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// FileList is a list of files for table rendering.
type FileList []apiclient.File

// Headers implements TableRenderer.
func (fl FileList) Headers() []string {
	return []string{"ID", "NAME", "TYPE", "SIZE", "STATUS", "UPLOADED"}
}

// Rows implements TableRenderer.
func (fl FileList) Rows() [][]string {
	rows := make([][]string, 0, len(fl))
	for _, f := range fl {
		rows = append(rows, []string{
			f.ID,
			f.FileName,
			f.FileType,
			bytesize.ByteSize(f.Size).String(),
			f.ProcessingStatus,
			f.UploadedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	files, err := client.ListFiles(args[0])
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, files, len(files) == 0, "No files found.", FileList(files))
}
