// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad config.
//   - Provide sane defaults for every optional block.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Key mapping used by LoadConfig:

	- PORT is honored as-is and maps to server.port.
	- Every other variable carries the BOOKSHELF_ prefix. The prefix is
	  removed, the rest lowercased, and "__" marks a nesting level:
	    BOOKSHELF_SERVER__PORT                   -> server.port
	    BOOKSHELF_STORE__PATH                    -> store.path
	    BOOKSHELF_OBSERVABILITY__LOGGING__LEVEL  -> observability.logging.level
	- Prefixed variables are loaded last, so they win over PORT.
*/

const (
	// EnvPrefix is the prefix every application variable carries.
	EnvPrefix = "BOOKSHELF_"

	// PortEnv is the plain variable that selects the listen port.
	PortEnv = "PORT"

	// ServiceName identifies this service in logs and APM.
	ServiceName = "bookshelf"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer so the whole block can be replaced; LoadConfig
// always fills it with defaults before reading the environment.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are plain seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required,numeric"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins" validate:"required,min=1"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig controls the per-client request limiter.
//
// A Rate of zero disables limiting entirely.
type RateLimitConfig struct {
	// Rate is the number of requests per second allowed for one client IP.
	Rate float64 `koanf:"rate" validate:"min=0"`

	// Burst is the number of requests a client may issue at once.
	Burst int `koanf:"burst" validate:"min=0"`

	// ExpiresIn is how long an idle client's limiter is kept in memory.
	ExpiresIn time.Duration `koanf:"expires_in" validate:"min=0"`
}

// Enabled reports whether requests should be rate limited.
func (c RateLimitConfig) Enabled() bool {
	return c.Rate > 0
}

// StoreConfig locates the JSON file that backs the book collection.
type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// DefaultConfig returns the configuration used when no variable is set.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "3000",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Rate:      0,
				Burst:     20,
				ExpiresIn: 3 * time.Minute,
			},
		},
		Store: StoreConfig{
			Path: "books.json",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig, validates it and returns the result.
//
// Behavior summary:
//   - Loads PORT, then BOOKSHELF_ prefixed variables
//   - Unmarshals into the defaults (missing keys keep their default)
//   - Validates struct tags with go-playground/validator
//   - Forces observability service name + environment
//   - Runs the observability block's own Validate
func LoadConfig() (*Config, error) {
	// "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	err := k.Load(env.Provider(PortEnv, ".", func(s string) string {
		// The provider matches by prefix; only the exact name counts.
		if s != PortEnv {
			return ""
		}
		return "server.port"
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", PortEnv, err)
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()

	// The decoder mirrors koanf's default one and adds comma splitting so
	// list values like cors_allowed_origins can come from a single variable.
	err = k.UnmarshalWithConf("", mainConfig, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           mainConfig,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
