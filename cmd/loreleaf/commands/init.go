package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/pkg/api"
	"github.com/loreleaf/loreleaf/pkg/config"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

var (
	initForce         bool
	initAdminPassword bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample Loreleaf configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/loreleaf/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  loreleaf init

  # Initialize with custom path
  loreleaf init --config /etc/loreleaf/config.yaml

  # Choose the admin password interactively instead of having one
  # generated on first start
  loreleaf init --admin-password

  # Force overwrite existing config
  loreleaf init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVar(&initAdminPassword, "admin-password", false, "Prompt for the admin password and store its hash in the config")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		// Use custom path
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		// Use default path
		configPath, err = config.InitConfig(initForce)
	}

	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if initAdminPassword {
		if err := setAdminPassword(configPath); err != nil {
			return err
		}
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: loreleaf start")
	fmt.Printf("  3. Or specify custom config: loreleaf start --config %s\n", configPath)
	if !initAdminPassword {
		fmt.Println("\nAdmin account:")
		fmt.Println("  A random admin password will be generated and printed on first start.")
		fmt.Println("  Run 'loreleaf init --admin-password' to choose one instead.")
	}
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random JWT secret has been generated for development use.")
	fmt.Println("  For production, generate a secure secret and use an environment variable:")
	fmt.Println("    # Generates a 64-character hex string (32 bytes of entropy)")
	fmt.Printf("    export %s=$(openssl rand -hex 32)\n", api.EnvJWTSecret)

	return nil
}

// setAdminPassword prompts for the admin password and persists its bcrypt
// hash into the freshly written config file.
func setAdminPassword(configPath string) error {
	password, err := promptPassword("Admin password: ")
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

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load generated config: %w", err)
	}
	cfg.Admin.PasswordHash = hash
	return config.SaveConfig(cfg, configPath)
}
