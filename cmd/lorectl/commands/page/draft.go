package page

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
)

var draftCmd = &cobra.Command{
	Use:   "draft <workspace-id>",
	Short: "Create a draft in a workspace",
	Long: `Create an unsaved draft page attached to a workspace.

Drafts live only in the database until saved; saving gives the draft a
title and a backing file in the library tree.

Examples:
  # Create a draft
  lorectl page draft <workspace-id>`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func runDraft(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	page, err := client.CreateDraft(args[0])
	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, page,
		fmt.Sprintf("Draft created successfully (id: %s)", page.ID))
}
