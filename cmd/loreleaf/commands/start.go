package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/aistream"
	"github.com/loreleaf/loreleaf/pkg/api"
	"github.com/loreleaf/loreleaf/pkg/config"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/links"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/metrics"
	"github.com/loreleaf/loreleaf/pkg/pages"
	"github.com/loreleaf/loreleaf/pkg/processor"
	syncpkg "github.com/loreleaf/loreleaf/pkg/sync"
	"github.com/loreleaf/loreleaf/pkg/workspace"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

// staticGeneratorBody is replayed by the static AI provider. It exists so
// the generation endpoint can be exercised end to end without a model
// backend configured.
const staticGeneratorBody = `Here is a short draft based on the pages in this workspace. ` +
	`The notes you selected share a common thread worth expanding: each one circles ` +
	`the same question from a different angle. Start by stating that question plainly, ` +
	`then walk through the supporting points one at a time, linking back to the source ` +
	`pages as you go. Close with the open problems the notes leave unresolved.`

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Loreleaf server",
	Long: `Start the Loreleaf server with the specified configuration.

By default, the server runs in the background (daemon mode). Use --foreground
to run in the foreground for debugging or when managed by a process supervisor.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/loreleaf/config.yaml.

Examples:
  # Start in background (default)
  loreleaf start

  # Start in foreground
  loreleaf start --foreground

  # Start with custom config file
  loreleaf start --config /etc/loreleaf/config.yaml

  # Start with environment variable overrides
  LORELEAF_LOGGING_LEVEL=DEBUG loreleaf start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/loreleaf/loreleaf.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/loreleaf/loreleaf.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	// Handle daemon mode (background)
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmt.Println("Loreleaf - Personal knowledge base server")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))

	// Initialize metrics (if enabled)
	var (
		m        *metrics.Metrics
		registry *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.NewMetrics(registry)
		logger.Info("Metrics enabled", "endpoint", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Open the metadata store (runs migrations on open)
	metaStore, err := store.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize metadata store: %w", err)
	}
	defer func() { _ = metaStore.Close() }()
	logger.Info("Metadata store ready", "type", cfg.Database.Type)

	// Lay out the content tree root
	content, err := contentstore.New(cfg.Storage.Root)
	if err != nil {
		return fmt.Errorf("failed to initialize content store: %w", err)
	}
	logger.Info("Content store ready", "root", content.Root())

	// Ensure the admin user exists (generates a random password on first
	// run unless the config carries a hash)
	adminPassword, err := ensureAdminUser(ctx, metaStore, content, cfg)
	if err != nil {
		return fmt.Errorf("failed to ensure admin user: %w", err)
	}
	if adminPassword != "" {
		logger.Info("Admin user created", "username", cfg.Admin.Username)
		fmt.Printf("\n*** IMPORTANT: Admin user created with password: %s ***\n", adminPassword)
		fmt.Println("Please save this password. It will not be shown again.")
		fmt.Println()
	}

	// Domain services
	registryProc := processor.NewRegistry()
	linkSvc := links.NewService(metaStore)
	pageSvc := pages.NewService(metaStore, linkSvc)
	workspaceSvc := workspace.NewService(metaStore)
	uploader := pages.NewUploader(metaStore, pageSvc, registryProc).WithMetrics(m)
	reconciler := syncpkg.NewReconciler(metaStore, registryProc, linkSvc).WithMetrics(m)
	engine := syncpkg.NewEngine(metaStore, content, reconciler).WithMetrics(m)

	// AI generation backend
	var generator aistream.Generator
	switch cfg.AI.Provider {
	case "static":
		generator = &aistream.StaticGenerator{Body: staticGeneratorBody, Delay: cfg.AI.ChunkDelay}
		logger.Info("AI generation enabled", "provider", "static", "chunk_delay", cfg.AI.ChunkDelay)
	default:
		logger.Info("AI generation disabled")
	}

	// Create the API server
	apiServer, err := api.NewServer(cfg.API, api.Services{
		Store:      metaStore,
		Content:    content,
		Pages:      pageSvc,
		Links:      linkSvc,
		Workspaces: workspaceSvc,
		Uploader:   uploader,
		Reconciler: reconciler,
		Generator:  generator,
		Metrics:    m,
		Registry:   registry,
		Version:    Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	logger.Info("API server configured", "port", apiServer.Port())

	// Startup reconciliation catches edits made while the server was down
	if cfg.Sync.ScanOnStart {
		if err := scanAllLibraries(ctx, metaStore, reconciler); err != nil {
			logger.Warn("Startup reconciliation reported errors", "error", err)
		}
	} else {
		logger.Info("Startup reconciliation disabled")
	}

	// Write PID file if specified
	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	// Start the filesystem watcher
	watcherDone := make(chan error, 1)
	if cfg.Sync.Watch {
		go func() {
			watcherDone <- engine.Start(ctx)
		}()
		logger.Info("Filesystem watcher enabled", "root", content.Root())
	} else {
		logger.Info("Filesystem watcher disabled")
	}

	// Start API server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- apiServer.Start(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		// Wait for server to shut down gracefully
		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		if cfg.Sync.Watch {
			if err := engine.Stop(); err != nil {
				logger.Error("Watcher shutdown error", "error", err)
			}
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")

	case err := <-watcherDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Watcher error", "error", err)
			return err
		}
	}

	return nil
}

// ensureAdminUser creates the configured admin user on first run. Returns
// the generated plaintext password when one was minted, empty otherwise.
func ensureAdminUser(ctx context.Context, s *store.GORMStore, content *contentstore.Store, cfg *config.Config) (string, error) {
	username := cfg.Admin.Username
	if username == "" {
		username = "admin"
	}

	if _, err := s.GetUser(ctx, username); err == nil {
		return "", nil
	}

	var (
		hash      = cfg.Admin.PasswordHash
		plaintext string
	)
	if hash == "" {
		raw := make([]byte, 12)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("failed to generate admin password: %w", err)
		}
		plaintext = hex.EncodeToString(raw)
		var err error
		hash, err = models.HashPassword(plaintext)
		if err != nil {
			return "", err
		}
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         string(models.RoleAdmin),
		StorageQuota: models.DefaultStorageQuota,
	}
	if _, err := s.CreateUser(ctx, user); err != nil {
		return "", err
	}
	if err := content.CreateUserTree(username, user.StorageQuota); err != nil {
		return "", err
	}
	return plaintext, nil
}

// scanAllLibraries runs a full reconciliation pass over every library of
// every user. Per-library failures are logged and do not stop the scan.
func scanAllLibraries(ctx context.Context, s *store.GORMStore, reconciler *syncpkg.Reconciler) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}

	var failures int
	for _, user := range users {
		libs, err := s.ListLibraries(ctx, user.ID)
		if err != nil {
			logger.Error("Listing libraries for startup scan failed", "user", user.Username, "error", err)
			failures++
			continue
		}
		for _, lib := range libs {
			summary, err := reconciler.ForceSync(ctx, lib)
			if err != nil {
				logger.Error("Startup reconciliation failed", "library", lib.ID, "error", err)
				failures++
				continue
			}
			logger.Info("Library scanned",
				"library", lib.Slug, "user", user.Username,
				"pages", summary.TotalPages, "updated", summary.Updated,
				"errors", summary.Errors)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d libraries failed to reconcile", failures)
	}
	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}

// startDaemon starts the server as a background daemon process.
func startDaemon() error {
	stateDir := GetDefaultStateDir()

	// Create state directory if it doesn't exist
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// Set default PID file if not specified
	pidPath := pidFile
	if pidPath == "" {
		pidPath = filepath.Join(stateDir, "loreleaf.pid")
	}

	// Check if already running
	if _, err := os.Stat(pidPath); err == nil {
		pidData, err := os.ReadFile(pidPath)
		if err == nil {
			var pid int
			if _, err := fmt.Sscanf(string(pidData), "%d", &pid); err == nil {
				// Check if process is still running
				if process, err := os.FindProcess(pid); err == nil {
					if err := process.Signal(syscall.Signal(0)); err == nil {
						return fmt.Errorf("Loreleaf is already running (PID %d)\nUse 'loreleaf stop' to stop the running instance", pid)
					}
				}
			}
		}
		// Stale PID file, remove it
		_ = os.Remove(pidPath)
	}

	// Set default log file if not specified
	logPath := logFile
	if logPath == "" {
		logPath = filepath.Join(stateDir, "loreleaf.log")
	}

	// Get the executable path
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	// Build arguments for the daemon process
	daemonArgs := []string{"start", "--foreground", "--pid-file", pidPath}
	if GetConfigFile() != "" {
		daemonArgs = append(daemonArgs, "--config", GetConfigFile())
	}

	// Create the daemon process
	cmd := exec.Command(executable, daemonArgs...)

	// Open log file for stdout/stderr
	logFileHandle, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	cmd.Stdout = logFileHandle
	cmd.Stderr = logFileHandle

	// Detach from parent process
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	// Start the daemon
	if err := cmd.Start(); err != nil {
		_ = logFileHandle.Close()
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	_ = logFileHandle.Close()

	fmt.Printf("Loreleaf started in background (PID %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidPath)
	fmt.Printf("  Log file: %s\n", logPath)
	fmt.Println("\nUse 'loreleaf stop' to stop the server")
	fmt.Println("Use 'loreleaf status' to check server status")

	return nil
}
