package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Chat        ChatConfig    `toml:"chat"`
	Query       QueryConfig   `toml:"query"`
}

// ServerConfig describes the backend service the client talks to
type ServerConfig struct {
	URL       string `toml:"url" validate:"required,url"` // Base URL of the document service
	RateLimit int    `toml:"rate_limit"`                  // Max requests per second issued by the client
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                       // "stdout", "file"
}

// ChatConfig contains defaults sent with every chat turn
type ChatConfig struct {
	DeveloperMessage string `toml:"developer_message"` // System prompt sent as developer_message
	Model            string `toml:"model"`             // Optional model override, empty omits the field
}

// QueryConfig contains defaults sent with every semantic query.
// Values are passed through to the service verbatim, no client-side clamping.
type QueryConfig struct {
	Limit          int     `toml:"limit"`
	ScoreThreshold float64 `toml:"score_threshold"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			URL:       "http://localhost:8000",
			RateLimit: 10,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Chat: ChatConfig{
			DeveloperMessage: "You are a helpful assistant that answers questions based on the provided context.",
		},
		Query: QueryConfig{
			Limit:          5,
			ScoreThreshold: 0.7,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against struct-level validation rules
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SCRIBE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if url := os.Getenv("SCRIBE_SERVER_URL"); url != "" {
		config.Server.URL = url
	}

	if limit := os.Getenv("SCRIBE_SERVER_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.Server.RateLimit = n
		}
	}

	if path := os.Getenv("SCRIBE_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if level := os.Getenv("SCRIBE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, serverURL string) {
	if serverURL != "" {
		config.Server.URL = serverURL
	}
}
