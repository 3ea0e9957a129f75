// Package config provides configuration management for the pyth keeper
package config

import (
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// Config holds the process configuration read from the environment
type Config struct {
	GistID        string `envconfig:"GIST_ID" required:"true"`                          // Gist holding config.yaml
	GithubToken   string `envconfig:"GITHUB_TOKEN"`                                     // Optional GitHub API token
	GithubAPIURL  string `envconfig:"GITHUB_API_URL" default:"https://api.github.com"`  // GitHub API base URL
	RPCURL        string `envconfig:"RPC_URL" required:"true"`                          // EVM JSON-RPC endpoint
	PrivateKey    string `envconfig:"PRIVATE_KEY"`                                      // Hex key without 0x, empty for dry-run
	RedisAddr     string `envconfig:"REDIS_ADDR"`                                       // Config cache, in-memory when empty
	RedisPassword string `envconfig:"REDIS_PASSWORD"`                                   // Redis password
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`                             // Redis database
	StorageKey    string `envconfig:"STORAGE_KEY" default:"pythConfig"`                 // Key of the cached config record
	Schedule      string `envconfig:"SCHEDULE" default:"@every 1m"`                     // Cron schedule of the keeper run
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8080"`                        // Status and metrics listener
	HermesRPS     int    `envconfig:"HERMES_RPS" default:"5"`                           // Price service requests per second
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`                         // zerolog level
	LogFormat     string `envconfig:"LOG_FORMAT" default:"json"`                        // json or text
	LogOutput     string `envconfig:"LOG_OUTPUT" default:"stdout"`                      // stdout, stderr or a file path
	DryRun        bool   `envconfig:"DRY_RUN" default:"false"`                          // Never submit transactions
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithEnvFile loads configuration from a .env file
func WithEnvFile(path string) Option {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}

		return nil
	}
}

// WithDryRun disables transaction submission
func WithDryRun(dryRun bool) Option {
	return func(c *Config) error {
		c.DryRun = c.DryRun || dryRun

		return nil
	}
}

// validate performs validation on the config values
func (c *Config) validate() error {
	if c.GistID == "" {
		return ErrGistIDMissing
	}

	for name, urlStr := range map[string]string{
		"RPC":        c.RPCURL,
		"GitHub API": c.GithubAPIURL,
	} {
		if urlStr == "" {
			return fmt.Errorf("%s URL is required", name)
		}

		if _, err := url.ParseRequestURI(urlStr); err != nil {
			return fmt.Errorf("invalid %s URL: %s", name, urlStr)
		}
	}

	// Validate private key format (should be hex without 0x prefix)
	if c.PrivateKey != "" && (len(c.PrivateKey) != 64 || !isHex(c.PrivateKey)) {
		return ErrInvalidPrivateKey
	}

	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}

	if c.HermesRPS <= 0 {
		return fmt.Errorf("HERMES_RPS must be positive, got %d", c.HermesRPS)
	}

	return nil
}

// isHex checks if a string is valid hexadecimal
func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}

	return true
}

// NewConfig creates a new validated Config instance
func NewConfig(opts ...Option) (*Config, error) {
	var cfg Config

	// Env files have to be loaded before the environment is processed
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// Re-apply so options take precedence over the environment
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// CanSubmit reports whether transactions may be signed and sent
func (c *Config) CanSubmit() bool {
	return c.PrivateKey != "" && !c.DryRun
}
