package library

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
)

var getCmd = &cobra.Command{
	Use:   "get <library-id>",
	Short: "Show a library",
	Long: `Display details of a single library.

Examples:
  # Show a library
  lorectl library get <library-id>

  # Show as JSON
  lorectl library get <library-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	library, err := client.GetLibrary(args[0])
	if err != nil {
		return fmt.Errorf("failed to get library: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, library)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, library)
	default:
		return output.SimpleTable(os.Stdout, [][2]string{
			{"ID", library.ID},
			{"Name", library.Name},
			{"Slug", library.Slug},
			{"Created", library.CreatedAt.Format("2006-01-02 15:04:05")},
		})
	}
}
