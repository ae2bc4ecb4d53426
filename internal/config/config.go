// Package config loads server and CLI configuration from a JSON file and the environment.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration written as a Go duration string in JSON ("45s").
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds")
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds settings for the HTTP server and the CLI commands.
// All fields are optional; missing values come from the environment or Defaults.
type Config struct {
	APIKey          string   `json:"api_key,omitempty"`          // Gemini API key
	Port            int      `json:"port,omitempty"`             // HTTP listen port
	Model           string   `json:"model,omitempty"`            // Gemini model name
	LogMode         string   `json:"log_mode,omitempty"`         // "dev" or "prod"
	ProgramBaseURL  string   `json:"program_base_url,omitempty"` // Overrides the catalog base URL
	CatalogPath     string   `json:"catalog_path,omitempty"`     // Synced catalog file; embedded catalog when empty
	AllowedOrigins  []string `json:"allowed_origins,omitempty"`  // CORS origins
	UpstreamTimeout Duration `json:"upstream_timeout,omitempty"` // Per-request model call timeout
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		Model:           "gemini-2.5-flash",
		LogMode:         "dev",
		AllowedOrigins:  []string{"*"},
		UpstreamTimeout: Duration(60 * time.Second),
	}
}

// Load builds the effective configuration: environment first, then the optional
// JSON file at path, then Defaults. A missing API key is not an error here.
func Load(path string) (*Config, error) {
	cfg := FromEnv()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(Defaults())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unparseable numbers and
// durations are left zero so that later layers supply them.
func FromEnv() Config {
	cfg := Config{
		APIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:          strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		LogMode:        strings.TrimSpace(os.Getenv("LOG_MODE")),
		ProgramBaseURL: strings.TrimSpace(os.Getenv("PROGRAM_BASE_URL")),
		CatalogPath:    strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		cfg.Port = port
	}
	if d, err := time.ParseDuration(os.Getenv("UPSTREAM_TIMEOUT")); err == nil {
		cfg.UpstreamTimeout = Duration(d)
	}
	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Zero values are accepted; required settings are checked where they are used.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("config error: 'upstream_timeout' must be positive")
	}

	switch strings.ToLower(c.LogMode) {
	case "", "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("config error: unknown 'log_mode' %q", c.LogMode)
	}

	if c.ProgramBaseURL != "" {
		u, err := url.Parse(c.ProgramBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'program_base_url' must be an absolute URL")
		}
	}

	if c.CatalogPath != "" {
		if _, err := os.Stat(c.CatalogPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.CatalogPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.ProgramBaseURL == "" {
		result.ProgramBaseURL = defaults.ProgramBaseURL
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.UpstreamTimeout == 0 {
		result.UpstreamTimeout = defaults.UpstreamTimeout
	}

	return result
}

// Timeout returns the upstream timeout as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.UpstreamTimeout)
}

func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
