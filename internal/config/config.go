// Package config provides configuration types and defaults for signup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/signup/internal/log"
)

// Config holds all configuration options for signup.
type Config struct {
	API           APIConfig          `mapstructure:"api" yaml:"api"`
	Availability  AvailabilityConfig `mapstructure:"availability" yaml:"availability"`
	Genres        []string           `mapstructure:"genres" yaml:"genres"`
	ToastDuration time.Duration      `mapstructure:"toast_duration" yaml:"toast_duration"`
	LogLevel      string             `mapstructure:"log_level" yaml:"log_level"`
	Tracing       TracingConfig      `mapstructure:"tracing" yaml:"tracing"`
}

// APIConfig points the wizard at the registration backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"` // per request
}

// AvailabilityConfig tunes the live username check.
type AvailabilityConfig struct {
	// Debounce is how long the username must stay unchanged before a
	// remote check is issued. Zero checks on every keystroke.
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`

	// CacheTTL memoizes successful checks per exact username.
	// Zero disables the cache (one request per check).
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// TracingConfig holds OpenTelemetry tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/signup/traces/traces.jsonl
	FilePath string `mapstructure:"file_path" yaml:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// DefaultGenres is the Step 2 catalog when none is configured.
func DefaultGenres() []string {
	return []string{
		"Action",
		"Comedy",
		"Drama",
		"Fantasy",
		"Horror",
		"Mystery",
		"Romance",
		"Sci-Fi",
		"Thriller",
	}
}

// DefaultTracesFilePath returns the default trace file location.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".signup", "traces", "traces.jsonl")
	}
	return filepath.Join(home, ".config", "signup", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 10 * time.Second,
		},
		Availability: AvailabilityConfig{
			Debounce: 300 * time.Millisecond,
			CacheTTL: 30 * time.Second,
		},
		Genres:        DefaultGenres(),
		ToastDuration: 3 * time.Second,
		LogLevel:      "debug",
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the whole configuration and returns the first problem found.
func Validate(c Config) error {
	if err := ValidateAPI(c.API); err != nil {
		return err
	}
	if c.Availability.Debounce < 0 {
		return fmt.Errorf("availability.debounce must not be negative, got %s", c.Availability.Debounce)
	}
	if c.Availability.CacheTTL < 0 {
		return fmt.Errorf("availability.cache_ttl must not be negative, got %s", c.Availability.CacheTTL)
	}
	if err := ValidateGenres(c.Genres); err != nil {
		return err
	}
	if c.ToastDuration < 0 {
		return fmt.Errorf("toast_duration must not be negative, got %s", c.ToastDuration)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateAPI checks the backend address and timeout.
func ValidateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", api.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host, got %q", api.BaseURL)
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", api.Timeout)
	}
	return nil
}

// ValidateGenres requires at least one non-blank, unique genre.
func ValidateGenres(genres []string) error {
	if len(genres) == 0 {
		return fmt.Errorf("genres must list at least one genre")
	}
	seen := make(map[string]bool, len(genres))
	for i, g := range genres {
		name := strings.TrimSpace(g)
		if name == "" {
			return fmt.Errorf("genre %d: name is required", i)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return fmt.Errorf("genre %d: duplicate genre %q", i, name)
		}
		seen[key] = true
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate destinations when tracing is enabled
	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Signup Configuration

# Registration backend
api:
  base_url: http://localhost:3000   # POST /api/auth/register, GET /api/user/check/{username}
  timeout: 10s                      # Per-request timeout

# Live username availability check
availability:
  debounce: 300ms   # Wait this long after the last keystroke before checking (0 = every keystroke)
  cache_ttl: 30s    # Reuse a successful check for the same username (0 = never cache)

# Genres offered on step 2 (at least one must be chosen)
genres:
  - Action
  - Comedy
  - Drama
  - Fantasy
  - Horror
  - Mystery
  - Romance
  - Sci-Fi
  - Thriller

# How long success/failure notifications stay on screen
toast_duration: 3s

# Minimum level written to the debug log (--debug / SIGNUP_DEBUG)
# log_level: debug

# Distributed tracing of API calls
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/signup/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
