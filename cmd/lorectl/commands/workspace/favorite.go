package workspace

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var favoriteUnset bool

var favoriteCmd = &cobra.Command{
	Use:   "favorite <workspace-id>",
	Short: "Mark a workspace as favorite",
	Long: `Set or clear the favorite flag on a workspace.

Favorited workspaces sort first in listings.

Examples:
  # Favorite a workspace
  lorectl workspace favorite <workspace-id>

  # Remove from favorites
  lorectl workspace favorite <workspace-id> --unset`,
	Args: cobra.ExactArgs(1),
	RunE: runFavorite,
}

func init() {
	favoriteCmd.Flags().BoolVar(&favoriteUnset, "unset", false, "Remove from favorites")
}

func runFavorite(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	workspace, err := client.SetWorkspaceFavorite(args[0], !favoriteUnset)
	if err != nil {
		return fmt.Errorf("failed to update favorite: %w", err)
	}

	msg := fmt.Sprintf("Workspace '%s' favorited", workspace.Title)
	if favoriteUnset {
		msg = fmt.Sprintf("Workspace '%s' removed from favorites", workspace.Title)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, workspace, msg)
}
