package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats <page-id>",
	Short: "Show a page's link statistics",
	Long: `Display link counts and link health for a page.

Health is the fraction of forward links that resolve to an existing
page.

Examples:
  # Show stats
  lorectl page stats <page-id>

  # Show as JSON
  lorectl page stats <page-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	stats, err := client.GetPageStats(args[0])
	if err != nil {
		return fmt.Errorf("failed to get page stats: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, stats)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, stats)
	default:
		return output.SimpleTable(os.Stdout, [][2]string{
			{"Forward links", fmt.Sprintf("%d", stats.ForwardLinks)},
			{"Broken links", fmt.Sprintf("%d", stats.BrokenLinks)},
			{"Backlinks", fmt.Sprintf("%d", stats.Backlinks)},
			{"Health", fmt.Sprintf("%.0f%%", stats.Health*100)},
		})
	}
}
