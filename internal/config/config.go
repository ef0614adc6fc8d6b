package config

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Defaults for the upstream feeds. Both publish the same rates; the first uses
// display-label keys ("24K Gold"), the second canonical keys ("vedhani").
const (
	DefaultFeedURL     = "https://www.businessmantra.info/gold_rates/devi_gold_rate/api.php"
	DefaultDeviFeedURL = "https://www.devi-jewellers.com/api/rates/live"
)

// Config holds the full application configuration.
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	// DatabaseURL is the primary store; RemoteDatabaseURL is the secondary
	// database polled by the import pipeline.
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	RemoteDatabaseURL string `mapstructure:"REMOTE_DATABASE_URL"`

	FeedURL     string        `mapstructure:"RATE_FEED_URL"`
	DeviFeedURL string        `mapstructure:"DEVI_FEED_URL"`
	FetchTimeout time.Duration `mapstructure:"FETCH_TIMEOUT"`

	// RESTBaseURL enables the REST data-API insert path; when set, writes are
	// attempted there first and fall back to the direct database upsert.
	RESTBaseURL     string `mapstructure:"REST_BASE_URL"`
	RESTAccessToken string `mapstructure:"REST_ACCESS_TOKEN"`

	// SyncIntervalMS drives the remote-import scheduler;
	// SyncRESTIntervalMinutes drives the feed-to-REST scheduler.
	SyncIntervalMS          int `mapstructure:"SYNC_INTERVAL_MS"`
	SyncRESTIntervalMinutes int `mapstructure:"SYNC_REST_INTERVAL_MINUTES"`

	JournalPath string `mapstructure:"JOURNAL_PATH"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory taking lower precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":3001")
	v.SetDefault("RATE_FEED_URL", DefaultFeedURL)
	v.SetDefault("DEVI_FEED_URL", DefaultDeviFeedURL)
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("SYNC_INTERVAL_MS", 0)
	v.SetDefault("SYNC_REST_INTERVAL_MINUTES", 0)
	v.SetDefault("JOURNAL_PATH", "./data/journal")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	// Missing .env is fine; the environment alone is a valid source.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read .env")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}

	return &cfg, nil
}

// SyncInterval returns the remote-import period, zero when disabled.
func (c *Config) SyncInterval() time.Duration {
	if c.SyncIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.SyncIntervalMS) * time.Millisecond
}

// RESTSyncInterval returns the feed-to-REST period, zero when disabled.
// Configured values below one minute are clamped up to one minute.
func (c *Config) RESTSyncInterval() time.Duration {
	if c.SyncRESTIntervalMinutes <= 0 {
		return 0
	}
	minutes := c.SyncRESTIntervalMinutes
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}
