package library

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/prompt"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new library",
	Long: `Create a new library and its directory tree on the server.

Examples:
  # Create a library
  lorectl library create "Research Notes"

  # Create interactively
  lorectl library create`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		name, err = prompt.InputRequired("Library name")
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	library, err := client.CreateLibrary(name)
	if err != nil {
		return fmt.Errorf("failed to create library: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, library,
		fmt.Sprintf("Library '%s' created successfully (id: %s)", library.Name, library.ID))
}
