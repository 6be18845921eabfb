package config

import (
	"testing"
	"time"

	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format text, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output stdout, got %q", cfg.Logging.Output)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Database.Type != store.DatabaseTypeSQLite {
		t.Errorf("Expected default database type sqlite, got %q", cfg.Database.Type)
	}
	if cfg.Database.SQLite.Path == "" {
		t.Error("Expected default SQLite path to be set")
	}
	if cfg.Storage.Root == "" {
		t.Error("Expected default storage root to be set")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 120*time.Second {
		t.Errorf("Expected default read timeout 120s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.WriteTimeout != 0 {
		t.Errorf("Expected write timeout to stay zero for streaming, got %v", cfg.API.WriteTimeout)
	}
	if cfg.API.JWT.TokenDuration != 30*24*time.Hour {
		t.Errorf("Expected default token duration 720h, got %v", cfg.API.JWT.TokenDuration)
	}
	if cfg.AI.Provider != "none" {
		t.Errorf("Expected default AI provider none, got %q", cfg.AI.Provider)
	}
	if cfg.AI.ChunkDelay != 20*time.Millisecond {
		t.Errorf("Expected default chunk delay 20ms, got %v", cfg.AI.ChunkDelay)
	}
	if cfg.Admin.Username != "admin" {
		t.Errorf("Expected default admin username admin, got %q", cfg.Admin.Username)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "json",
			Output: "stderr",
		},
		ShutdownTimeout: 5 * time.Second,
		Storage:         StorageConfig{Root: "/srv/loreleaf"},
		Admin:           AdminConfig{Username: "operator"},
	}
	ApplyDefaults(cfg)

	// Level is normalized to uppercase
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected log level normalized to DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format json preserved, got %q", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected explicit shutdown timeout preserved, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Storage.Root != "/srv/loreleaf" {
		t.Errorf("Expected explicit storage root preserved, got %q", cfg.Storage.Root)
	}
	if cfg.Admin.Username != "operator" {
		t.Errorf("Expected explicit admin username preserved, got %q", cfg.Admin.Username)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Expected default config to pass validation, got error: %v", err)
	}

	if !cfg.Sync.Watch {
		t.Error("Expected sync watch enabled in default config")
	}
	if !cfg.Sync.ScanOnStart {
		t.Error("Expected scan on start enabled in default config")
	}
}

func TestApplyDefaults_PostgresDefaults(t *testing.T) {
	cfg := &Config{
		Database: store.Config{
			Type: store.DatabaseTypePostgres,
			Postgres: store.PostgresConfig{
				Host:     "db.internal",
				Database: "loreleaf",
				User:     "loreleaf",
			},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Database.Postgres.Port != 5432 {
		t.Errorf("Expected default postgres port 5432, got %d", cfg.Database.Postgres.Port)
	}
	if cfg.Database.Postgres.SSLMode != "disable" {
		t.Errorf("Expected default ssl mode disable, got %q", cfg.Database.Postgres.SSLMode)
	}
	if cfg.Database.Postgres.MaxOpenConns != 25 {
		t.Errorf("Expected default max open conns 25, got %d", cfg.Database.Postgres.MaxOpenConns)
	}
}
