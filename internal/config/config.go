// Package config loads and validates the application configuration. Values
// come from three layers, later layers winning: built-in defaults, an
// optional YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/storybeats-labs/storybeats/internal/core/services"
)

// Config is the root of the application configuration. It is immutable after
// Load and safe for concurrent reads.
type Config struct {
	Server  ServerConfig    `koanf:"server"`
	Log     LogConfig       `koanf:"log"`
	Catalog CatalogConfig   `koanf:"catalog"`
	Vision  VisionConfig    `koanf:"vision"`
	Storage StorageConfig   `koanf:"storage"`
	Engine  services.Config `koanf:"engine"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig controls the root logger. Console switches from JSON lines to
// the human-readable zerolog console writer.
type LogConfig struct {
	Level   string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Console bool   `koanf:"console"`
}

// CatalogConfig holds the Spotify Web API credentials and the resilience
// knobs of the catalog client.
type CatalogConfig struct {
	ClientID     string        `koanf:"client_id" validate:"required"`
	ClientSecret string        `koanf:"client_secret" validate:"required"`
	TokenURL     string        `koanf:"token_url" validate:"required,url"`
	BaseURL      string        `koanf:"base_url" validate:"required,url"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxRetries   int           `koanf:"max_retries"`
	BaseBackoff  time.Duration `koanf:"base_backoff"`
	RateEvery    time.Duration `koanf:"rate_every"`
	RateBurst    int           `koanf:"rate_burst"`

	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`
}

// VisionConfig points at the Ollama instance that analyzes photos and
// reranks batches.
type VisionConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Model   string        `koanf:"model" validate:"required"`
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// defaultConfig returns the full set of production defaults, including the
// engine's curated mood catalog.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level:   "info",
			Console: false,
		},
		Catalog: CatalogConfig{
			TokenURL:        "https://accounts.spotify.com/api/token",
			BaseURL:         "https://api.spotify.com/v1",
			Timeout:         10 * time.Second,
			MaxRetries:      3,
			BaseBackoff:     500 * time.Millisecond,
			RateEvery:       100 * time.Millisecond,
			RateBurst:       5,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Vision: VisionConfig{
			BaseURL: "http://localhost:11434",
			Model:   "llava",
			Timeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			Path: "storybeats.db",
		},
		Engine: *services.DefaultConfig(),
	}
}

// singleton validator, struct info is cached between calls
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration the application cannot start without.
// Tag-level shape checks run first, then the duration knobs, then the
// engine's own validation.
func (c *Config) Validate() error {
	if err := structValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fieldErrorMessage(fe))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}

	if c.Server.ReadHeaderTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server timeouts must be positive")
	}
	if c.Catalog.Timeout <= 0 || c.Catalog.BaseBackoff <= 0 || c.Catalog.RateEvery <= 0 {
		return fmt.Errorf("config: catalog timeout, base_backoff and rate_every must be positive")
	}
	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("config: catalog max_retries must not be negative, got %d", c.Catalog.MaxRetries)
	}
	if c.Catalog.RateBurst < 1 {
		return fmt.Errorf("config: catalog rate_burst must be at least 1, got %d", c.Catalog.RateBurst)
	}
	if c.Catalog.BreakerFailures < 1 || c.Catalog.BreakerCooldown <= 0 {
		return fmt.Errorf("config: catalog breaker settings are invalid")
	}
	if c.Vision.Timeout <= 0 {
		return fmt.Errorf("config: vision timeout must be positive, got %v", c.Vision.Timeout)
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("config: engine: %w", err)
	}
	return nil
}

// fieldErrorMessage turns a validator field error into something an operator
// can act on without knowing the tag language.
func fieldErrorMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s fails %q validation", field, fe.Tag())
	}
}
