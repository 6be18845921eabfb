package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/cmd/lorectl/cmdutil"
	"github.com/loreleaf/loreleaf/internal/cli/credentials"
	"github.com/loreleaf/loreleaf/internal/cli/output"
	"github.com/loreleaf/loreleaf/internal/cli/timeutil"
	"github.com/loreleaf/loreleaf/pkg/apiclient"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Display the status of the connected Loreleaf server.

This command checks the server health endpoint and displays
status, uptime, and version information.

Examples:
  # Check status of connected server
  lorectl status

  # Output as JSON
  lorectl status -o json`,
	RunE: runStatus,
}

// ServerStatus represents the server status for display.
type ServerStatus struct {
	Server  string `json:"server" yaml:"server"`
	Status  string `json:"status" yaml:"status"`
	Healthy bool   `json:"healthy" yaml:"healthy"`
	Ready   bool   `json:"ready" yaml:"ready"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	serverURL := cmdutil.Flags.ServerURL
	if serverURL == "" {
		store, err := credentials.NewStore()
		if err != nil {
			return fmt.Errorf("failed to initialize credential store: %w", err)
		}

		ctx, err := store.GetCurrentContext()
		if err != nil {
			return fmt.Errorf("not logged in. Run 'lorectl login' first")
		}
		serverURL = ctx.ServerURL
	}

	if serverURL == "" {
		return fmt.Errorf("no server configured. Run 'lorectl login' first")
	}

	status := ServerStatus{
		Server:  serverURL,
		Status:  "unreachable",
		Healthy: false,
	}

	// Health works unauthenticated, so a bare client is enough
	client := apiclient.New(serverURL)

	health, err := client.Health()
	if err != nil {
		status.Error = err.Error()
	} else {
		status.Status = health.Status
		status.Healthy = health.Status == "ok"
		status.Version = health.Version
		status.Uptime = health.Uptime
		status.Ready = client.Ready() == nil
	}

	// Output based on format
	format, err := cmdutil.GetOutputFormatParsed()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("Loreleaf Server Status")
	fmt.Println("======================")
	fmt.Println()
	fmt.Printf("  Server:     %s\n", status.Server)

	if status.Healthy {
		fmt.Printf("  Status:     \033[32m● %s\033[0m\n", status.Status)
	} else if status.Status == "unreachable" {
		fmt.Printf("  Status:     \033[31m○ %s\033[0m\n", status.Status)
	} else {
		fmt.Printf("  Status:     \033[33m● %s\033[0m\n", status.Status)
	}

	if status.Healthy {
		fmt.Printf("  Ready:      %s\n", cmdutil.BoolToYesNo(status.Ready))
	}
	if status.Version != "" {
		fmt.Printf("  Version:    %s\n", status.Version)
	}
	if status.Uptime != "" {
		fmt.Printf("  Uptime:     %s\n", timeutil.FormatUptime(status.Uptime))
	}
	if status.Error != "" {
		fmt.Printf("  Error:      %s\n", status.Error)
	}
	fmt.Println()
}
