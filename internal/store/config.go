package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ModeLive   = "LIVE"
	ModeDryRun = "DRY_RUN"

	SourceAPI    = "API"
	SourceScrape = "SCRAPE"

	DefaultTwitterEndpoint = "https://api.twitter.com"
)

type Config struct {
	Mode              string `yaml:"mode"`
	PollSeconds       int    `yaml:"poll_seconds"`
	WaitForMarketOpen bool   `yaml:"wait_for_market_open"`
	CheckpointPath    string `yaml:"checkpoint_path"`
	MetricsAddr       string `yaml:"metrics_addr"`
	Feed              struct {
		Source    string `yaml:"source"`
		Account   string `yaml:"account"`
		PageSize  int    `yaml:"page_size"`
		ScrapeURL string `yaml:"scrape_url"`
	} `yaml:"feed"`
	Order struct {
		Qty         int64  `yaml:"qty"`
		TimeInForce string `yaml:"time_in_force"`
	} `yaml:"order"`
	Retry struct {
		MaxConsecutiveFailures int `yaml:"max_consecutive_failures"`
	} `yaml:"retry"`
	TradeLog struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"tradelog"`

	// Credentials never come from the yaml file.
	Credentials Credentials `yaml:"-"`
}

// Credentials are the service endpoints and keys read from the environment.
type Credentials struct {
	AlpacaEndpoint           string
	AlpacaDataEndpoint       string
	AlpacaAPIKey             string
	AlpacaAPISecret          string
	TwitterEndpoint          string
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessTokenKey    string
	TwitterAccessTokenSecret string
}

// ConfigError reports every missing or invalid setting at once.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLive
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 30
	}
	if c.CheckpointPath == "" {
		c.CheckpointPath = "var/last_processed_tweet"
	}
	if c.Feed.Source == "" {
		c.Feed.Source = SourceAPI
	}
	if c.Feed.Account == "" {
		c.Feed.Account = "stoolpresidente"
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 50
	}
	if c.Order.Qty == 0 {
		c.Order.Qty = 1
	}
	if c.Order.TimeInForce == "" {
		c.Order.TimeInForce = "day"
	}
	if c.TradeLog.Dir == "" {
		c.TradeLog.Dir = "logs"
	}
	c.Mode = strings.ToUpper(c.Mode)
	c.Feed.Source = strings.ToUpper(c.Feed.Source)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Mode != ModeLive && c.Mode != ModeDryRun {
		problems = append(problems, fmt.Sprintf("invalid mode '%s': must be 'LIVE' or 'DRY_RUN'", c.Mode))
	}
	if c.PollSeconds < 0 {
		problems = append(problems, fmt.Sprintf("poll_seconds must be positive, got %d", c.PollSeconds))
	}
	if c.Feed.Source != SourceAPI && c.Feed.Source != SourceScrape {
		problems = append(problems, fmt.Sprintf("invalid feed.source '%s': must be 'API' or 'SCRAPE'", c.Feed.Source))
	}
	if c.Feed.PageSize < 5 || c.Feed.PageSize > 100 {
		problems = append(problems, fmt.Sprintf("feed.page_size must be between 5-100, got %d", c.Feed.PageSize))
	}
	if c.Feed.Source == SourceScrape && c.Feed.ScrapeURL == "" {
		problems = append(problems, "feed.scrape_url is required when feed.source is 'SCRAPE'")
	}
	if c.Order.Qty < 1 {
		problems = append(problems, fmt.Sprintf("order.qty must be at least 1, got %d", c.Order.Qty))
	}
	if c.Retry.MaxConsecutiveFailures < 0 {
		problems = append(problems, "retry.max_consecutive_failures cannot be negative")
	}
	problems = append(problems, c.Credentials.missing(c.Feed.Source)...)

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func (cr Credentials) missing(source string) []string {
	required := []struct {
		name, value string
	}{
		{"ALPACA_ENDPOINT", cr.AlpacaEndpoint},
		{"ALPACA_API_KEY", cr.AlpacaAPIKey},
		{"ALPACA_API_SECRET", cr.AlpacaAPISecret},
	}
	if source == SourceAPI {
		required = append(required, []struct{ name, value string }{
			{"TWITTER_API_KEY", cr.TwitterAPIKey},
			{"TWITTER_API_SECRET", cr.TwitterAPISecret},
			{"TWITTER_ACCESS_TOKEN_KEY", cr.TwitterAccessTokenKey},
			{"TWITTER_ACCESS_TOKEN_SECRET", cr.TwitterAccessTokenSecret},
		}...)
	}

	var out []string
	for _, r := range required {
		if r.value == "" {
			out = append(out, "missing required environment variable "+r.name)
		}
	}
	return out
}

// CredentialsFromEnv reads service endpoints and keys using lookup (os.Getenv in production).
func CredentialsFromEnv(lookup func(string) string) Credentials {
	cr := Credentials{
		AlpacaEndpoint:           lookup("ALPACA_ENDPOINT"),
		AlpacaDataEndpoint:       lookup("ALPACA_DATA_ENDPOINT"),
		AlpacaAPIKey:             lookup("ALPACA_API_KEY"),
		AlpacaAPISecret:          lookup("ALPACA_API_SECRET"),
		TwitterEndpoint:          lookup("TWITTER_ENDPOINT"),
		TwitterAPIKey:            lookup("TWITTER_API_KEY"),
		TwitterAPISecret:         lookup("TWITTER_API_SECRET"),
		TwitterAccessTokenKey:    lookup("TWITTER_ACCESS_TOKEN_KEY"),
		TwitterAccessTokenSecret: lookup("TWITTER_ACCESS_TOKEN_SECRET"),
	}
	if cr.TwitterEndpoint == "" {
		cr.TwitterEndpoint = DefaultTwitterEndpoint
	}
	return cr
}

// LoadConfig reads the yaml file at path (a missing file means all defaults),
// merges credentials from the environment and validates the result.
func LoadConfig(path string, lookup func(string) string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, &ConfigError{Problems: []string{fmt.Sprintf("parse %s: %v", path, err)}}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	c.applyDefaults()
	c.Credentials = CredentialsFromEnv(lookup)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
