package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// configTemplate is the commented configuration file written by
// 'loreleaf init'. Values are filled from defaults plus a freshly
// generated JWT secret.
const configTemplate = `# Loreleaf Configuration File
#
# Precedence: environment variables (LORELEAF_*) > this file > defaults.
# Example override: LORELEAF_LOGGING_LEVEL=DEBUG

logging:
  # Minimum log level: DEBUG, INFO, WARN, ERROR
  level: INFO
  # Output format: text, json
  format: text
  # Destination: stdout, stderr, or a file path
  output: stdout

database:
  # Backend: sqlite (single-node default) or postgres
  type: sqlite
  sqlite:
    path: %s
  # postgres:
  #   host: localhost
  #   port: 5432
  #   database: loreleaf
  #   user: loreleaf
  #   password: ""

storage:
  # Content tree root. Pages and files live here as plain files,
  # organized as <root>/<username>/libraries/<slug>/{pages,files}.
  root: %s

api:
  port: 8080
  jwt:
    # HMAC signing key for CLI bearer tokens. Must be at least 32
    # characters. Can also be set via LORELEAF_SECRET.
    secret: %q

sync:
  # Watch the storage root and reconcile on-disk changes as they happen
  watch: true
  # Reconcile every library at startup to catch offline edits
  scan_on_start: true

metrics:
  # Expose Prometheus metrics on /metrics
  enabled: false

ai:
  # Generation backend: none, static
  provider: none

admin:
  username: admin
  # password_hash is set by 'loreleaf init' when a password is chosen

shutdown_timeout: 30s
`

// InitConfig creates a configuration file at the default location.
// Returns the path of the created file.
//
// Fails if a config file already exists, unless force is true.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath creates a configuration file at the given path,
// creating parent directories as needed.
//
// Fails if the file already exists, unless force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s\n\n"+
				"Use --force to overwrite it", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	secret, err := generateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	defaults := GetDefaultConfig()
	content := fmt.Sprintf(configTemplate,
		defaults.Database.SQLite.Path,
		defaults.Storage.Root,
		secret,
	)

	// 0600: the file carries the JWT signing secret.
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateSecret returns a random 64-character hex string suitable as an
// HMAC signing key.
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
