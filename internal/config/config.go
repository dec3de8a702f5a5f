package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Calendar CalendarConfig `yaml:"calendar" envconfig:"CALENDAR"`
	API      APIConfig      `yaml:"api" envconfig:"API"`
	Fred     FredConfig     `yaml:"fred" envconfig:"FRED"`
	Outputs  OutputsConfig  `yaml:"outputs" envconfig:"OUTPUTS"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// CalendarConfig controls the collection window and provider fan-out
type CalendarConfig struct {
	MonthsBack  int `yaml:"months_back" envconfig:"MONTHS_BACK"`
	MonthsAhead int `yaml:"months_ahead" envconfig:"MONTHS_AHEAD"`

	// Providers restricts a run to the named providers. Empty means
	// every registered provider runs.
	Providers []string `yaml:"providers" envconfig:"PROVIDERS"`

	// Concurrency bounds how many providers fetch at once.
	Concurrency int `yaml:"concurrency" envconfig:"CONCURRENCY"`
}

// APIConfig configures the external calendar API provider. The
// provider is skipped when no key is configured.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	Key     string        `yaml:"key" envconfig:"KEY"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// FredConfig configures the FRED client used for release schedules and
// series observations
type FredConfig struct {
	APIKey     string        `yaml:"api_key" envconfig:"API_KEY"`
	BaseURL    string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	MaxRetries int           `yaml:"max_retries" envconfig:"MAX_RETRIES"`
	RetryDelay time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY"`

	// Client-side throttle. FRED's published limit is 120 req/min;
	// the defaults stay well inside it.
	RPS   float64 `yaml:"rps" envconfig:"RPS"`
	Burst int     `yaml:"burst" envconfig:"BURST"`
}

// OutputsConfig controls where snapshots are published
type OutputsConfig struct {
	// Destinations lists output directories. The first entry is the
	// primary destination; supplementary formats are written there only.
	Destinations []string `yaml:"destinations" envconfig:"DESTINATIONS"`

	SnapshotFile string `yaml:"snapshot_file" envconfig:"SNAPSHOT_FILE"`
	ICSFile      string `yaml:"ics_file" envconfig:"ICS_FILE"`
	ExcelFile    string `yaml:"excel_file" envconfig:"EXCEL_FILE"`

	WriteICS   bool `yaml:"write_ics" envconfig:"WRITE_ICS"`
	WriteExcel bool `yaml:"write_excel" envconfig:"WRITE_EXCEL"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int             `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in ascending precedence
func Load() (*Config, error) {
	cfg := Default()

	// Layer the config file over defaults if one exists
	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over everything
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile layers YAML file values over the current config
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize cleans up values that arrive in equivalent spellings
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	c.Fred.BaseURL = strings.TrimRight(c.Fred.BaseURL, "/")

	cleaned := c.Outputs.Destinations[:0]
	for _, d := range c.Outputs.Destinations {
		if d = strings.TrimSpace(d); d != "" {
			cleaned = append(cleaned, d)
		}
	}
	c.Outputs.Destinations = cleaned
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Calendar.MonthsBack < 0 {
		return fmt.Errorf("calendar months_back cannot be negative: %d", c.Calendar.MonthsBack)
	}
	if c.Calendar.MonthsAhead < 0 {
		return fmt.Errorf("calendar months_ahead cannot be negative: %d", c.Calendar.MonthsAhead)
	}
	if c.Calendar.Concurrency <= 0 {
		return fmt.Errorf("calendar concurrency must be positive: %d", c.Calendar.Concurrency)
	}

	if c.Fred.BaseURL == "" {
		return fmt.Errorf("fred base_url is required")
	}
	if c.Fred.MaxRetries < 0 {
		return fmt.Errorf("fred max_retries cannot be negative: %d", c.Fred.MaxRetries)
	}
	if c.Fred.RPS <= 0 {
		return fmt.Errorf("fred rps must be positive: %g", c.Fred.RPS)
	}

	if len(c.Outputs.Destinations) == 0 {
		return fmt.Errorf("at least one output destination must be specified")
	}
	if c.Outputs.SnapshotFile == "" {
		return fmt.Errorf("outputs snapshot_file is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	// JSON output is the only supported log format
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// PrimaryDestination returns the first configured output directory
func (c *Config) PrimaryDestination() string {
	return c.Outputs.Destinations[0]
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			MonthsBack:  DefaultMonthsBack,
			MonthsAhead: DefaultMonthsAhead,
			Concurrency: DefaultProviderConcurrency,
		},
		API: APIConfig{
			Timeout: DefaultHTTPTimeout,
		},
		Fred: FredConfig{
			BaseURL:    FredBaseURL,
			Timeout:    DefaultHTTPTimeout,
			MaxRetries: FredMaxRetries,
			RetryDelay: FredRetryDelay,
			RPS:        FredRequestsPerSecond,
			Burst:      FredBurst,
		},
		Outputs: OutputsConfig{
			Destinations: []string{DefaultOutputDir},
			SnapshotFile: SnapshotFileName,
			ICSFile:      ICSFileName,
			ExcelFile:    ExcelFileName,
			WriteICS:     true,
			WriteExcel:   false,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "both",
			FilePath:    DefaultLogFile,
			Development: false,
		},
	}
}
