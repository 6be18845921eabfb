package library

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var syncDetails bool

var syncCmd = &cobra.Command{
	Use:   "sync <library-id>",
	Short: "Force a filesystem sync",
	Long: `Force a full reconciliation between the library's directory tree
and the database, and print the summary.

Examples:
  # Sync a library
  lorectl library sync <library-id>

  # Sync and show per-path details
  lorectl library sync <library-id> --details`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDetails, "details", false, "Show per-path sync details")
}

// SyncDetailList renders per-path outcomes as a table.
type SyncDetailList []apiclient.SyncDetail

// Headers implements TableRenderer.
func (dl SyncDetailList) Headers() []string {
	return []string{"PATH", "ACTION", "ERROR"}
}

// Rows implements TableRenderer.
func (dl SyncDetailList) Rows() [][]string {
	rows := make([][]string, 0, len(dl))
	for _, d := range dl {
		rows = append(rows, []string{d.Path, d.Action, cmdutil.EmptyOr(d.Error, "-")})
	}
	return rows
}

func runSync(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	summary, err := client.SyncLibrary(args[0])
	if err != nil {
		return fmt.Errorf("failed to sync library: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintResource(os.Stdout, summary, nil)
	}

	fmt.Printf("Sync complete: %d pages, %d updated, %d unchanged, %d errors\n",
		summary.TotalPages, summary.Updated, summary.NoChange, summary.Errors)

	if syncDetails && len(summary.Details) > 0 {
		fmt.Println()
		return cmdutil.PrintOutput(os.Stdout, summary.Details, false, "", SyncDetailList(summary.Details))
	}

	return nil
}
