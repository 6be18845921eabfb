package file

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/bytesize"
	"github.com/loreleaf/loreleaf/internal/cli/output"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var getCmd = &cobra.Command{
	Use:   "get <file-id>",
	Short: "Show a file's metadata",
	Long: `Display a file's metadata, including what the processor extracted.

Examples:
  # Show a file
  lorectl file get <file-id>

  # Show as JSON
  lorectl file get <file-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	file, err := client.GetFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, file)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, file)
	default:
		return output.SimpleTable(os.Stdout, filePairs(file))
	}
}

// filePairs builds the label/value rows, leaving out fields the
// processor didn't populate.
func filePairs(file *apiclient.File) [][2]string {
	pairs := [][2]string{
		{"ID", file.ID},
		{"Name", file.FileName},
		{"Type", file.FileType},
		{"Size", bytesize.ByteSize(file.Size).String()},
		{"Status", file.ProcessingStatus},
	}
	if file.ProcessingError != "" {
		pairs = append(pairs, [2]string{"Error", file.ProcessingError})
	}
	if file.Title != "" {
		pairs = append(pairs, [2]string{"Title", file.Title})
	}
	if file.Author != "" {
		pairs = append(pairs, [2]string{"Author", file.Author})
	}
	if file.PDFPageCount > 0 {
		pairs = append(pairs, [2]string{"Pages", fmt.Sprintf("%d", file.PDFPageCount)})
	}
	if file.EpubChapterCount > 0 {
		pairs = append(pairs, [2]string{"Chapters", fmt.Sprintf("%d", file.EpubChapterCount)})
	}
	if file.ImageWidth > 0 {
		pairs = append(pairs, [2]string{"Dimensions", fmt.Sprintf("%dx%d", file.ImageWidth, file.ImageHeight)})
	}
	pairs = append(pairs,
		[2]string{"Cover", cmdutil.BoolToYesNo(file.HasCover)},
		[2]string{"Uploaded", file.UploadedAt.Format("2006-01-02 15:04:05")},
	)
	return pairs
}
