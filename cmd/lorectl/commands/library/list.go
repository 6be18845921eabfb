package library

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all libraries",
	Long: `List the authenticated user's libraries.

Examples:
  # List libraries as table
  lorectl library list

  # List as JSON
  lorectl library list -o json`,
	RunE: runList,
}

// LibraryList is a list of libraries for table rendering.
type LibraryList []apiclient.Library

// Headers implements TableRenderer.
func (ll LibraryList) Headers() []string {
	return []string{"ID", "NAME", "SLUG", "CREATED"}
}

// Rows implements TableRenderer.
func (ll LibraryList) Rows() [][]string {
	rows := make([][]string, 0, len(ll))
	for _, l := range ll {
		rows = append(rows, []string{l.ID, l.Name, l.Slug, l.CreatedAt.Format("2006-01-02 15:04")})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	libraries, err := client.ListLibraries()
	if err != nil {
		return fmt.Errorf("failed to list libraries: %w", err)
	}

	return cmdutil.PrintOutput(os.Stdout, libraries, len(libraries) == 0, "No libraries found.", LibraryList(libraries))
}
