package config

import (
	"errors"
	"time"
)

// Default configuration values.
const (
	defaultServiceName    = "kidscout"
	defaultServiceVersion = "1.0.0"
	defaultBatchSize      = 100

	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	defaultHTTPTimeoutSec = 30

	defaultPageIntervalMs  = 500
	defaultTermIntervalMs  = 500
	defaultFetchIntervalMs = 100
	defaultBatchIntervalMs = 1000

	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// Config holds all process-level configuration for kidscout. Run-level
// settings (search terms, score threshold) live in the config store and are
// loaded per run, not here.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// BatchSize is the number of channels fetched, classified, and
	// persisted as one unit. Smaller batches trade throughput for
	// crash-resilience.
	BatchSize int `env:"KIDSCOUT_BATCH_SIZE" yaml:"batch_size"`
	// BatchInterval is the pause between successive batches.
	BatchInterval time.Duration `yaml:"batch_interval"`
}

// YouTubeConfig holds YouTube Data API client configuration.
type YouTubeConfig struct {
	APIKey  string        `env:"YOUTUBE_API_KEY" yaml:"api_key"`
	BaseURL string        `env:"YOUTUBE_BASE_URL" yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	// PageInterval is the pause between successive paginated search calls.
	PageInterval time.Duration `yaml:"page_interval"`
	// TermInterval is the pause between search terms.
	TermInterval time.Duration `yaml:"term_interval"`
	// FetchInterval is the pause between per-channel detail fetches.
	FetchInterval time.Duration `yaml:"fetch_interval"`
}

// SheetsConfig holds Google Sheets store configuration. Credentials are
// opaque here; authentication is the sheets client's concern.
type SheetsConfig struct {
	SpreadsheetID string `env:"GOOGLE_SHEET_ID" yaml:"spreadsheet_id"`
	// CredentialsJSON is the service account key material, typically
	// injected as a secret.
	CredentialsJSON string `env:"GOOGLE_SHEETS_CREDENTIALS" yaml:"credentials_json"`
	// CredentialsFile is an alternative path to a key file. JSON wins
	// when both are set.
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS" yaml:"credentials_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Validation errors.
var (
	ErrMissingAPIKey        = errors.New("youtube api key is required")
	ErrMissingSpreadsheetID = errors.New("spreadsheet id is required")
)

// Validate checks that the required secrets are present.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Sheets.SpreadsheetID == "" {
		return ErrMissingSpreadsheetID
	}
	return nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setYouTubeDefaults(&cfg.YouTube)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.BatchSize <= 0 {
		s.BatchSize = defaultBatchSize
	}
	if s.BatchInterval == 0 {
		s.BatchInterval = defaultBatchIntervalMs * time.Millisecond
	}
}

func setYouTubeDefaults(y *YouTubeConfig) {
	if y.BaseURL == "" {
		y.BaseURL = defaultYouTubeBaseURL
	}
	if y.Timeout == 0 {
		y.Timeout = defaultHTTPTimeoutSec * time.Second
	}
	if y.PageInterval == 0 {
		y.PageInterval = defaultPageIntervalMs * time.Millisecond
	}
	if y.TermInterval == 0 {
		y.TermInterval = defaultTermIntervalMs * time.Millisecond
	}
	if y.FetchInterval == 0 {
		y.FetchInterval = defaultFetchIntervalMs * time.Millisecond
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
