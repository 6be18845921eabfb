package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
// On Windows, backslashes in double-quoted YAML strings are interpreted as
// escape sequences (e.g. \U -> Unicode escape), causing parse errors.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

func TestLoad_DefaultConfig(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write minimal config
	configContent := `
logging:
  level: "INFO"

database:
  type: sqlite
  sqlite:
    path: "` + yamlSafePath(tmpDir) + `/metadata.db"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"

api:
  port: 8080
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Load config
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify defaults were applied
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.CookieName != "loreleaf_session" {
		t.Errorf("Expected default cookie name, got %q", cfg.API.CookieName)
	}
	if cfg.AI.Provider != "none" {
		t.Errorf("Expected default AI provider 'none', got %q", cfg.AI.Provider)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config.
	// This allows users to run the server without a config file for quick testing.
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}

	// Verify default config is returned
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}

	// Verify default API port
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if !cfg.Sync.Watch {
		t.Error("Expected sync watch enabled by default")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	// Write invalid YAML
	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Should return error
	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_SyncDefaultsOn(t *testing.T) {
	// A minimal config with no sync section must not silently disable the
	// watcher or the startup scan.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database:
  type: sqlite
  sqlite:
    path: "` + yamlSafePath(tmpDir) + `/metadata.db"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.Sync.Watch {
		t.Error("Expected sync.watch to default to true")
	}
	if !cfg.Sync.ScanOnStart {
		t.Error("Expected sync.scan_on_start to default to true")
	}
}

func TestLoad_SyncExplicitOff(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database:
  type: sqlite
  sqlite:
    path: "` + yamlSafePath(tmpDir) + `/metadata.db"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"

sync:
  watch: false
  scan_on_start: false
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Sync.Watch {
		t.Error("Expected sync.watch false when explicitly disabled")
	}
	if cfg.Sync.ScanOnStart {
		t.Error("Expected sync.scan_on_start false when explicitly disabled")
	}
}

func TestLoad_DurationStrings(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database:
  type: sqlite
  sqlite:
    path: "` + yamlSafePath(tmpDir) + `/metadata.db"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"

shutdown_timeout: 45s

api:
  request_timeout: 1m
  jwt:
    token_duration: 168h

ai:
  provider: static
  chunk_delay: 5ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ShutdownTimeout != 45*time.Second {
		t.Errorf("Expected shutdown_timeout 45s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.RequestTimeout != time.Minute {
		t.Errorf("Expected request_timeout 1m, got %v", cfg.API.RequestTimeout)
	}
	if cfg.API.JWT.TokenDuration != 168*time.Hour {
		t.Errorf("Expected token_duration 168h, got %v", cfg.API.JWT.TokenDuration)
	}
	if cfg.AI.ChunkDelay != 5*time.Millisecond {
		t.Errorf("Expected chunk_delay 5ms, got %v", cfg.AI.ChunkDelay)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: INFO

database:
  type: sqlite
  sqlite:
    path: "` + yamlSafePath(tmpDir) + `/metadata.db"

storage:
  root: "` + yamlSafePath(tmpDir) + `/storage"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("LORELEAF_LOGGING_LEVEL", "DEBUG")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected env var to override log level, got %q", cfg.Logging.Level)
	}
}

func TestMustLoad_MissingExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "nope.yaml")

	_, err := MustLoad(missing)
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "saved", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.API.Port = 9999
	cfg.Storage.Root = filepath.Join(tmpDir, "storage")
	cfg.Database.SQLite.Path = filepath.Join(tmpDir, "metadata.db")
	cfg.API.JWT.Secret = "round-trip-secret-that-is-long-enough-32"

	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	// File permissions should be restricted
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat saved config: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.API.Port != 9999 {
		t.Errorf("Expected port 9999 after round trip, got %d", loaded.API.Port)
	}
	if loaded.Storage.Root != cfg.Storage.Root {
		t.Errorf("Expected storage root %q, got %q", cfg.Storage.Root, loaded.Storage.Root)
	}
	if loaded.API.JWT.Secret != cfg.API.JWT.Secret {
		t.Error("Expected JWT secret to survive round trip")
	}
}
