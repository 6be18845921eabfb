package api

import (
	"os"
	"time"

	"github.com/loreleaf/loreleaf/internal/logger"
)

// EnvJWTSecret is the name of the environment variable for the API's JWT
// signing secret.
const EnvJWTSecret = "LORELEAF_SECRET"

// Config configures the REST API HTTP server.
type Config struct {
	// Port is the HTTP port for the API endpoints.
	// Default: 8080
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. Uploads can run to 100MB, so this stays generous.
	// Default: 120s
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Zero means no timeout; the generation endpoint holds an
	// open event stream, so the default is zero.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 60s
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// RequestTimeout bounds individual non-streaming requests via
	// middleware.
	// Default: 30s
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// CookieName is the name of the web session cookie.
	// Default: loreleaf_session
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`

	// SecureCookies sets the Secure attribute on session cookies. Leave
	// off for plain-HTTP development.
	SecureCookies bool `mapstructure:"secure_cookies" yaml:"secure_cookies"`

	// JWT configures bearer token generation and validation.
	JWT JWTConfig `mapstructure:"jwt" yaml:"jwt"`
}

// JWTConfig configures JWT token generation and validation.
type JWTConfig struct {
	// Secret is the HMAC signing key for JWT tokens. Must be at least 32
	// characters long. Can also be set via the LORELEAF_SECRET environment
	// variable, which takes precedence over the config file.
	Secret string `mapstructure:"secret" yaml:"secret"`

	// TokenDuration is the lifetime of CLI bearer tokens.
	// Default: 720h (30 days)
	TokenDuration time.Duration `mapstructure:"token_duration" yaml:"token_duration"`
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 120 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.CookieName == "" {
		c.CookieName = "loreleaf_session"
	}
	if c.JWT.TokenDuration == 0 {
		c.JWT.TokenDuration = 30 * 24 * time.Hour
	}
}

// GetJWTSecret returns the JWT secret, preferring the environment
// variable. Logs a warning if the environment variable overrides a
// config file value.
func (c *Config) GetJWTSecret() string {
	envSecret := os.Getenv(EnvJWTSecret)
	if envSecret != "" {
		if c.JWT.Secret != "" && c.JWT.Secret != envSecret {
			logger.Warn("JWT secret from environment variable overrides config file value",
				"env_var", EnvJWTSecret)
		}
		return envSecret
	}
	return c.JWT.Secret
}

// HasJWTSecret returns whether a JWT secret is configured.
func (c *Config) HasJWTSecret() bool {
	return c.GetJWTSecret() != ""
}
