package user

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/bytesize"
	"github.com/loreleaf/loreleaf/internal/cli/prompt"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var (
	createPassword string
	createRole     string
	createQuota    string
)

var createCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a new user",
	Long: `Create a new user account and its on-disk tree.

Examples:
  # Create a user, prompting for the password
  lorectl user create alice

  # Create an admin
  lorectl user create alice --role admin

  # Create with a 5 GB storage quota
  lorectl user create alice --quota 5GB`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createPassword, "password", "p", "", "Password (prompted if not provided)")
	createCmd.Flags().StringVar(&createRole, "role", "user", "Role (user|admin)")
	createCmd.Flags().StringVar(&createQuota, "quota", "", "Storage quota, e.g. 5GB (default: server default)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := cmdutil.GetAuthenticatedClient()
	if err != nil {
		return err
	}

	username := args[0]

	password := createPassword
	if password == "" {
		password, err = prompt.PasswordWithConfirmation("Password", "Confirm password", 8)
		if err != nil {
			return cmdutil.HandleAbort(err)
		}
	}

	var quota int64
	if createQuota != "" {
		size, err := bytesize.ParseByteSize(createQuota)
		if err != nil {
			return fmt.Errorf("invalid quota: %w", err)
		}
		quota = size.Int64()
	}

	user, err := client.CreateUser(&apiclient.CreateUserRequest{
		Username:     username,
		Password:     password,
		Role:         createRole,
		StorageQuota: quota,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return cmdutil.PrintResourceWithSuccess(os.Stdout, user,
		fmt.Sprintf("User '%s' created successfully", user.Username))
}
