package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultBaseURL            = "https://assessment.ksensetech.com/api"
	DefaultTimeout            = 30 * time.Second
	DefaultAuthHeader         = "x-api-key"
	DefaultKeyEnv             = "API_KEY"
	DefaultRateBurst          = 1
	DefaultPageSize           = 20
	DefaultMaxPages           = 1000
	DefaultMaxAttempts        = 10
	DefaultBackoffFactor      = 500 * time.Millisecond
	DefaultMaxBackoff         = 2 * time.Minute
	DefaultValidationAttempts = 3
	DefaultSubmitPath         = "/submit-assessment"
	DefaultWatchInterval      = 5 * time.Minute
	DefaultLogLevel           = "info"
)

// Config is the top-level configuration. Fields map 1:1 to config.example.yaml.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Submit SubmitConfig `yaml:"submit"`
	Watch  WatchConfig  `yaml:"watch"`

	// MetricsFile, when set, receives a Prometheus textfile after every run.
	MetricsFile string `yaml:"metrics_file"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`
}

// APIConfig describes the clinical API.
type APIConfig struct {
	// BaseURL is prefixed to every request path, e.g. "/patients".
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single HTTP attempt, including reading the body.
	Timeout time.Duration `yaml:"timeout"`

	Auth AuthConfig `yaml:"auth"`

	// RateLimit caps outgoing requests per second. 0 disables pacing.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// AuthConfig names the header carrying the static credential and the
// environment variable holding its value.
type AuthConfig struct {
	Header string `yaml:"header"`
	KeyEnv string `yaml:"key_env"`
}

// Key returns the credential resolved from the environment.
// Returns empty string if KeyEnv is unset or the variable is not found.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// FetchConfig holds the acquisition budgets.
type FetchConfig struct {
	// PageSize is the limit sent with every page request.
	PageSize int `yaml:"page_size"`

	// MaxPages stops a server that never reports hasNext=false.
	MaxPages int `yaml:"max_pages"`

	// MaxAttempts is the transport budget for one HTTP call.
	MaxAttempts int `yaml:"max_attempts"`

	// BackoffFactor is the first retry delay; each later retry doubles it.
	BackoffFactor time.Duration `yaml:"backoff_factor"`

	// MaxBackoff caps a single retry delay, including Retry-After values.
	MaxBackoff time.Duration `yaml:"max_backoff"`

	// ValidationAttempts is how many times a page request is re-issued when
	// the body does not have the expected shape.
	ValidationAttempts int `yaml:"validation_attempts"`
}

// SubmitConfig configures posting the report back to the API.
type SubmitConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig configures the periodic re-assessment loop.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`

	// Webhooks receive the patients that changed category after each run.
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the YAML config file at path. An empty path skips
// the file and returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadDotenv copies variables from the .env file at path into the process
// environment without overriding variables that are already set.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate re-checks c, e.g. after command-line overrides.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
			Auth: AuthConfig{
				Header: DefaultAuthHeader,
				KeyEnv: DefaultKeyEnv,
			},
			RateBurst: DefaultRateBurst,
		},
		Fetch: FetchConfig{
			PageSize:           DefaultPageSize,
			MaxPages:           DefaultMaxPages,
			MaxAttempts:        DefaultMaxAttempts,
			BackoffFactor:      DefaultBackoffFactor,
			MaxBackoff:         DefaultMaxBackoff,
			ValidationAttempts: DefaultValidationAttempts,
		},
		Submit:   SubmitConfig{Path: DefaultSubmitPath},
		Watch:    WatchConfig{Interval: DefaultWatchInterval},
		LogLevel: DefaultLogLevel,
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if cfg.API.Auth.Header == "" {
		return fmt.Errorf("api.auth.header is required")
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	if cfg.API.RateLimit > 0 && cfg.API.RateBurst <= 0 {
		return fmt.Errorf("api.rate_burst must be positive when rate_limit is set")
	}
	if cfg.Fetch.PageSize <= 0 {
		return fmt.Errorf("fetch.page_size must be positive")
	}
	if cfg.Fetch.MaxPages <= 0 {
		return fmt.Errorf("fetch.max_pages must be positive")
	}
	if cfg.Fetch.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be positive")
	}
	if cfg.Fetch.ValidationAttempts <= 0 {
		return fmt.Errorf("fetch.validation_attempts must be positive")
	}
	if cfg.Fetch.BackoffFactor < 0 || cfg.Fetch.MaxBackoff < 0 {
		return fmt.Errorf("fetch backoff durations must not be negative")
	}
	if !strings.HasPrefix(cfg.Submit.Path, "/") {
		return fmt.Errorf("submit.path must start with /, got %q", cfg.Submit.Path)
	}
	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive")
	}
	for i, wh := range cfg.Watch.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("watch.webhooks[%d]: unknown type %q", i, wh.Type)
		}
		if wh.URLEnv == "" {
			return fmt.Errorf("watch.webhooks[%d]: url_env is required", i)
		}
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}
