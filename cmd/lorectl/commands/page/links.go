package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/output"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var linksCmd = &cobra.Command{
	Use:   "links <page-id>",
	Short: "Show a page's links",
	Long: `Display a page's forward links and backlinks.

Forward links are [[title]] references in this page's content.
Backlinks are references from other pages pointing here.

Examples:
  # Show links as tables
  lorectl page links <page-id>

  # Show as JSON
  lorectl page links <page-id> -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

// LinkList renders link graph edges as a table.
type LinkList []apiclient.Link

// Headers implements TableRenderer.
func (ll LinkList) Headers() []string {
	return []string{"TEXT", "POSITION", "TARGET"}
}

// Rows implements TableRenderer.
func (ll LinkList) Rows() [][]string {
	rows := make([][]string, 0, len(ll))
	for _, l := range ll {
		target := "(broken)"
		if l.TargetPageID != nil {
			target = *l.TargetPageID
		}
		rows = append(rows, []string{l.LinkText, fmt.Sprintf("%d", l.Position), target})
	}
	return rows
}

// BacklinkList renders incoming edges; the source matters, not the target.
type BacklinkList []apiclient.Link

// Headers implements TableRenderer.
func (bl BacklinkList) Headers() []string {
	return []string{"TEXT", "SOURCE PAGE"}
}

// Rows implements TableRenderer.
func (bl BacklinkList) Rows() [][]string {
	rows := make([][]string, 0, len(bl))
	for _, l := range bl {
		rows = append(rows, []string{l.LinkText, l.SourcePageID})
	}
	return rows
}

func runLinks(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	links, err := client.GetPageLinks(args[0])
	if err != nil {
		return fmt.Errorf("failed to get page links: %w", err)
	}

	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return cmdutil.PrintResource(os.Stdout, links, nil)
	}

	fmt.Printf("Forward links (%d):\n", len(links.Forward))
	if len(links.Forward) == 0 {
		fmt.Println("  none")
	} else if err := output.PrintTable(os.Stdout, LinkList(links.Forward)); err != nil {
		return err
	}

	fmt.Printf("\nBacklinks (%d):\n", len(links.Back))
	if len(links.Back) == 0 {
		fmt.Println("  none")
	} else if err := output.PrintTable(os.Stdout, BacklinkList(links.Back)); err != nil {
		return err
	}

	return nil
}
