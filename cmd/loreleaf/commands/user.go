package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/internal/bytesize"
	"github.com/loreleaf/loreleaf/pkg/config"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

// userCmd manages accounts directly against the database, for setups
// where the server is not running or the admin API is not reachable.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users directly in the database",
	Long: `Manage Loreleaf users directly in the metadata database.

These commands operate on the configured database without going through the
REST API, so they work while the server is stopped. For day-to-day user
management against a running server, prefer 'lorectl admin users'.`,
}

var (
	userAddRole  string
	userAddQuota string
)

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a new user (prompts for password)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete <username>",
	Aliases: []string{"remove"},
	Short:   "Delete a user and archive their storage tree",
	Args:    cobra.ExactArgs(1),
	RunE:    runUserDelete,
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all users",
	Args:    cobra.NoArgs,
	RunE:    runUserList,
}

var userPasswdCmd = &cobra.Command{
	Use:     "passwd <username>",
	Aliases: []string{"password"},
	Short:   "Change a user's password",
	Args:    cobra.ExactArgs(1),
	RunE:    runUserPasswd,
}

var userQuotaCmd = &cobra.Command{
	Use:   "quota <username> <size>",
	Short: "Set a user's storage quota (e.g. 2GB, 500MB)",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserQuota,
}

func init() {
	userAddCmd.Flags().StringVar(&userAddRole, "role", "user", "Role for the new user (user|admin)")
	userAddCmd.Flags().StringVar(&userAddQuota, "quota", "1GB", "Storage quota for the new user")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userQuotaCmd)
}

// openStores loads the config and opens the metadata and content stores.
func openStores() (*config.Config, *store.GORMStore, *contentstore.Store, error) {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return nil, nil, nil, err
	}
	metaStore, err := store.New(&cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open metadata store: %w", err)
	}
	content, err := contentstore.New(cfg.Storage.Root)
	if err != nil {
		_ = metaStore.Close()
		return nil, nil, nil, fmt.Errorf("failed to open content store: %w", err)
	}
	return cfg, metaStore, content, nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	username := args[0]

	role := models.UserRole(userAddRole)
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q (valid: user, admin)", userAddRole)
	}
	quota, err := bytesize.ParseByteSize(userAddQuota)
	if err != nil {
		return fmt.Errorf("invalid quota %q: %w", userAddQuota, err)
	}

	_, metaStore, content, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = metaStore.Close() }()

	ctx := context.Background()
	if _, err := metaStore.GetUser(ctx, username); err == nil {
		return fmt.Errorf("user %q already exists", username)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         string(role),
		StorageQuota: quota.Int64(),
	}
	if _, err := metaStore.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := content.CreateUserTree(username, user.StorageQuota); err != nil {
		return fmt.Errorf("failed to create storage tree: %w", err)
	}

	fmt.Printf("User %q created (role: %s, quota: %s)\n", username, role, quota)
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	username := args[0]

	_, metaStore, content, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = metaStore.Close() }()

	ctx := context.Background()
	if err := metaStore.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	archived, err := content.ArchiveUserTree(username)
	if err != nil {
		fmt.Printf("User %q deleted (no storage tree to archive)\n", username)
		return nil
	}

	fmt.Printf("User %q deleted, storage archived to %s\n", username, archived)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	_, metaStore, _, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = metaStore.Close() }()

	ctx := context.Background()
	users, err := metaStore.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users")
		return nil
	}

	fmt.Printf("%-20s %-8s %-12s %-12s %s\n", "USERNAME", "ROLE", "QUOTA", "USED", "LAST LOGIN")
	fmt.Println(strings.Repeat("-", 70))
	for _, u := range users {
		used, err := metaStore.StorageUsed(ctx, u.ID)
		if err != nil {
			used = 0
		}
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %-8s %-12s %-12s %s\n",
			u.Username, u.Role,
			bytesize.ByteSize(u.StorageQuota).String(),
			bytesize.ByteSize(used).String(),
			lastLogin)
	}

	return nil
}

func runUserPasswd(cmd *cobra.Command, args []string) error {
	username := args[0]

	_, metaStore, _, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = metaStore.Close() }()

	ctx := context.Background()
	if _, err := metaStore.GetUser(ctx, username); err != nil {
		return fmt.Errorf("user %q not found", username)
	}

	password, err := promptPassword("New password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return err
	}
	if err := metaStore.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Printf("Password changed for user %q\n", username)
	return nil
}

func runUserQuota(cmd *cobra.Command, args []string) error {
	username, size := args[0], args[1]

	quota, err := bytesize.ParseByteSize(size)
	if err != nil {
		return fmt.Errorf("invalid quota %q: %w", size, err)
	}

	_, metaStore, _, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = metaStore.Close() }()

	ctx := context.Background()
	if err := metaStore.UpdateStorageQuota(ctx, username, quota.Int64()); err != nil {
		return fmt.Errorf("failed to update quota: %w", err)
	}

	fmt.Printf("Quota for user %q set to %s\n", username, quota)
	return nil
}
