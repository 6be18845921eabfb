package file

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var uploadMode string

var uploadCmd = &cobra.Command{
	Use:   "upload <library-id> <path>...",
	Short: "Upload files to a library",
	Long: `Upload local files into a library.

Duplicate filenames are handled per --mode: skip leaves the existing
file alone, replace overwrites it, rename stores the upload under a
numbered name.

Examples:
  # Upload files, skipping duplicates
  lorectl file upload <library-id> paper.pdf cover.png

  # Upload and overwrite duplicates
  lorectl file upload <library-id> paper.pdf --mode replace

  # Upload and keep both copies
  lorectl file upload <library-id> paper.pdf --mode rename`,
	Args: cobra.MinimumNArgs(2),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadMode, "mode", "skip", "Duplicate handling (skip|replace|rename)")
}

// UploadResultList renders per-file upload outcomes as a table.
type UploadResultList []apiclient.UploadResult

// Headers implements TableRenderer.
func (ul UploadResultList) Headers() []string {
	return []string{"NAME", "OUTCOME", "FILE ID"}
}

// Rows implements TableRenderer.
func (ul UploadResultList) Rows() [][]string {
	rows := make([][]string, 0, len(ul))
	for _, r := range ul {
		outcome := "uploaded"
		switch {
		case r.Error != "":
			outcome = "error: " + r.Error
		case r.Skipped:
			outcome = "skipped"
		}
		rows = append(rows, []string{r.File.FileName, outcome, cmdutil.EmptyOr(r.File.ID, "-")})
	}
	return rows
}

func runUpload(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	libraryID, paths := args[0], args[1:]

	// Fail fast on unreadable paths before starting the request
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("cannot read %s: %w", p, err)
		}
	}

	results, err := client.UploadFiles(libraryID, uploadMode, paths)
	if err != nil {
		return fmt.Errorf("failed to upload files: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintResource(os.Stdout, results, nil)
	}

	uploaded := 0
	for _, r := range results {
		if r.Error == "" && !r.Skipped {
			uploaded++
		}
	}
	fmt.Printf("Uploaded %d of %d files\n\n", uploaded, len(results))

	return output.PrintTable(os.Stdout, UploadResultList(results))
}
