// Package file implements file management commands for lorectl.
package file

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for file management.
var Cmd = &cobra.Command{
	Use:   "file",
	Short: "File management",
	Long: `Manage uploaded files on the Loreleaf server.

Files live in the library's attachments directory. Markdown uploads
become pages; PDFs, EPUBs, and images get their metadata extracted and
a companion page created.

Examples:
  # List files in a library
  lorectl file list <library-id>

  # Upload files
  lorectl file upload <library-id> paper.pdf cover.png

  # Download a file
  lorectl file download <file-id> -O paper.pdf

  # Re-run metadata extraction
  lorectl file reprocess <file-id>`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(uploadCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(downloadCmd)
	Cmd.AddCommand(reprocessCmd)
}
