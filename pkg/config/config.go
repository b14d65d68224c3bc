// Package config handles configuration loading for the SDK.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax). This allows sensitive values
// like the application secret to be injected at runtime.
//
// # Configuration Sections
//
//   - platform: endpoint URL, culture, request TTL
//   - transport: HTTP timeouts
//   - retry: transient-failure retry policy
//   - compression: request compression threshold
//   - app: application identity and secret
//
// # Example Configuration
//
//	platform:
//	  endpoint: https://platform.example.com/service
//	  language: en
//	  country: US
//	  requestTTL: 9m
//
//	transport:
//	  timeout: 30s
//
//	retry:
//	  maxAttempts: 3
//	  backoff: 500ms
//
//	app:
//	  id: ${PHR_APP_ID}
//	  secret: ${PHR_APP_SECRET}
//
// See [Load] for loading configuration from a file.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Platform    PlatformConfig    `yaml:"platform"`
	Transport   TransportConfig   `yaml:"transport"`
	Retry       RetryConfig       `yaml:"retry"`
	Compression CompressionConfig `yaml:"compression"`
	App         AppConfig         `yaml:"app"`
}

// PlatformConfig holds platform endpoint settings
type PlatformConfig struct {
	Endpoint string `yaml:"endpoint"`
	Language string `yaml:"language"`
	Country  string `yaml:"country"`
	// RequestTTL bounds how long the platform accepts a request after
	// its msg-time.
	RequestTTL time.Duration `yaml:"requestTTL"`
}

// TransportConfig holds HTTP client settings
type TransportConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	IdleConnTimeout time.Duration `yaml:"idleConnTimeout"`
}

// RetryConfig holds the transient-failure retry policy
type RetryConfig struct {
	// MaxAttempts is the total number of HTTP attempts per request,
	// including the first.
	MaxAttempts int           `yaml:"maxAttempts"`
	Backoff     time.Duration `yaml:"backoff"`
	Multiplier  float64       `yaml:"multiplier"`
}

// CompressionConfig holds request compression settings
type CompressionConfig struct {
	// Threshold is the request size in bytes at which gzip compression
	// kicks in. Zero disables request compression.
	Threshold int `yaml:"threshold"`
}

// AppConfig holds the application identity
type AppConfig struct {
	ID string `yaml:"id"`
	// Secret is the base64-encoded pre-shared application secret.
	Secret string `yaml:"secret"`
}

// SecretBytes decodes the application secret.
func (a AppConfig) SecretBytes() ([]byte, error) {
	if a.Secret == "" {
		return nil, fmt.Errorf("app.secret is not set")
	}
	data, err := base64.StdEncoding.DecodeString(a.Secret)
	if err != nil {
		return nil, fmt.Errorf("decoding app.secret: %w", err)
	}
	return data, nil
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Platform.Language == "" {
		c.Platform.Language = "en"
	}
	if c.Platform.Country == "" {
		c.Platform.Country = "US"
	}
	if c.Platform.RequestTTL == 0 {
		c.Platform.RequestTTL = 9 * time.Minute
	}
	if c.Transport.Timeout == 0 {
		c.Transport.Timeout = 30 * time.Second
	}
	if c.Transport.IdleConnTimeout == 0 {
		c.Transport.IdleConnTimeout = 90 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.Backoff == 0 {
		c.Retry.Backoff = 500 * time.Millisecond
	}
	if c.Retry.Multiplier == 0 {
		c.Retry.Multiplier = 2.0
	}
}

func (c *Config) validate() error {
	if c.Platform.Endpoint == "" {
		return fmt.Errorf("platform.endpoint is required")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.maxAttempts must be at least 1")
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1")
	}
	if c.Compression.Threshold < 0 {
		return fmt.Errorf("compression.threshold must not be negative")
	}
	return nil
}
