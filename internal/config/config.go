package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/justyntemme/booksearch-t/pkg/models"
)

const (
	DefaultServerURL      = "http://localhost:8080"
	DefaultFontSize       = 16
	MinFontSize           = 12
	MaxFontSize           = 24
	DefaultTheme          = "dark"
	DefaultLocale         = "en-US"
	DefaultLogLevel       = "info"
	DefaultTimeoutSeconds = 30
	DefaultRequestsPerSec = 10
	configFileName        = "config.json"
	logFileName           = "booksearch-t.log"
	configDirName         = "booksearch-t"
)

var validate = validator.New()

// Config holds the application configuration
type Config struct {
	ServerURL  string            `json:"server_url" validate:"required,url"`
	SearchMode models.SearchMode `json:"search_mode" validate:"oneof=keyword regex"`
	FontSize   int               `json:"font_size" validate:"gte=12,lte=24"`
	Theme      string            `json:"theme" validate:"oneof=dark light"`
	Locale     string            `json:"locale" validate:"required,bcp47_language_tag"`
	LogLevel   string            `json:"log_level" validate:"oneof=debug info warn error"`
	LogFile    string            `json:"log_file,omitempty"`

	// 0 disables the per-request timeout
	RequestTimeoutSeconds int `json:"request_timeout_seconds" validate:"gte=0"`
	// 0 disables client-side throttling
	RequestsPerSecond float64 `json:"requests_per_second" validate:"gte=0"`

	// Path to config file (not persisted)
	path string `json:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ServerURL:             DefaultServerURL,
		SearchMode:            models.SearchKeyword,
		FontSize:              DefaultFontSize,
		Theme:                 DefaultTheme,
		Locale:                DefaultLocale,
		LogLevel:              DefaultLogLevel,
		RequestTimeoutSeconds: DefaultTimeoutSeconds,
		RequestsPerSecond:     DefaultRequestsPerSec,
	}
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from path. A missing file yields defaults.
func LoadFrom(configPath string) (*Config, error) {
	cfg := Default()
	cfg.path = configPath

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	cfg.path = configPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	if c.path == "" {
		p, err := getConfigPath()
		if err != nil {
			return err
		}
		c.path = p
	}

	// Ensure directory exists
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// Path returns the file this config was loaded from
func (c *Config) Path() string {
	return c.path
}

// LogPath returns the log file location, defaulting to the config directory
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	if c.path != "" {
		return filepath.Join(filepath.Dir(c.path), logFileName)
	}
	return filepath.Join(os.TempDir(), logFileName)
}

// RequestTimeout returns the per-request timeout, zero meaning none
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ClampFontSize limits size to the supported reader range
func ClampFontSize(size int) int {
	return max(MinFontSize, min(MaxFontSize, size))
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}
