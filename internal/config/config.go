// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no API key for the selected provider can be found.
var ErrMissingAPIKey = errors.New("API key is missing")

// Environment variables read by ApplyEnv and ResolveAPIKey.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvProvider        = "NEWS_AGENT_PROVIDER"
	EnvModel           = "NEWS_AGENT_MODEL"
	EnvLogLevel        = "LOG_LEVEL"
	EnvPort            = "PORT"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultProvider       = "gemini"
	DefaultTimeoutSeconds = 30
	DefaultLogLevel       = "info"
	DefaultPort           = 8080
)

var knownProviders = map[string]bool{
	"gemini":    true,
	"anthropic": true,
}

// Config represents the configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// LLM
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`   // Provider API key
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"` // gemini or anthropic
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`       // Overrides the analysis model

	// Fetching
	UseBrowser     bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`         // Re-render thin pages in headless Chrome
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"` // Per-request download timeout
	UserAgent      string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	MaxCandidates  int    `json:"max_candidates,omitempty" yaml:"max_candidates,omitempty"` // Links a crawl may try; 0 tries all

	// Output
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Print detailed debug information
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	// Server
	Port int `json:"port,omitempty" yaml:"port,omitempty"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// It does not check for the API key; that is resolved separately by ResolveAPIKey.
func (c *Config) Validate() error {
	if c.Provider != "" && !knownProviders[strings.ToLower(c.Provider)] {
		return fmt.Errorf("config error: unknown provider %q (want gemini or anthropic)", c.Provider)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("config error: 'max_candidates' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	return nil
}

// ApplyEnv fills fields that are still empty from the environment.
// getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.Provider == "" {
		c.Provider = getenv(EnvProvider)
	}
	if c.Model == "" {
		c.Model = getenv(EnvModel)
	}
	if c.LogLevel == "" {
		c.LogLevel = getenv(EnvLogLevel)
	}
	if c.Port == 0 {
		if port, err := strconv.Atoi(getenv(EnvPort)); err == nil {
			c.Port = port
		}
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the package defaults.
// Bool fields cannot distinguish unset from false, so they are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxCandidates == 0 {
		result.MaxCandidates = defaults.MaxCandidates
	}

	if result.Provider == "" {
		result.Provider = DefaultProvider
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if result.LogLevel == "" {
		result.LogLevel = DefaultLogLevel
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	return result
}

// Timeout returns the download timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveAPIKey returns the first non-empty key from the flag value, the config file,
// and the provider's environment variable, in that order.
func (c *Config) ResolveAPIKey(flagValue string, getenv func(string) string) (string, error) {
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, nil
	}

	envVar := EnvGeminiAPIKey
	if strings.EqualFold(c.Provider, "anthropic") {
		envVar = EnvAnthropicAPIKey
	}
	if key := strings.TrimSpace(getenv(envVar)); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w: pass --api-key, set api_key in the config file, or set %s", ErrMissingAPIKey, envVar)
}
