package config

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Venue names the supported exchange adapters.
type Venue string

const (
	VenueBinance Venue = "binance"
	VenueOKX     Venue = "okx"
	VenueHTX     Venue = "htx"
)

type Config struct {
	LogLevel string                `yaml:"log_level"`
	Venues   map[Venue]VenueConfig `yaml:"venues"`
}

type VenueConfig struct {
	APIKey     string `yaml:"api_key"`
	APISecret  string `yaml:"api_secret"`
	Passphrase string `yaml:"passphrase"`
	BaseURL    string `yaml:"base_url"`
	Sandbox    bool   `yaml:"sandbox"`

	RecvWindowMs    int64 `yaml:"recv_window_ms"`
	HTTPTimeoutSec  int64 `yaml:"http_timeout_sec"`
	RateLimitPerSec int   `yaml:"rate_limit_per_sec"`

	TakerFee Decimal `yaml:"taker_fee"`
	MakerFee Decimal `yaml:"maker_fee"`
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("config must contain a single YAML document")
		}
		return Config{}, err
	}
	cfg.normalize()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	normalized := make(map[Venue]VenueConfig, len(c.Venues))
	for venue, vc := range c.Venues {
		vc.APIKey = strings.TrimSpace(vc.APIKey)
		vc.APISecret = strings.TrimSpace(vc.APISecret)
		vc.Passphrase = strings.TrimSpace(vc.Passphrase)
		vc.BaseURL = strings.TrimSpace(vc.BaseURL)
		normalized[Venue(strings.ToLower(strings.TrimSpace(string(venue))))] = vc
	}
	c.Venues = normalized
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for venue, vc := range c.Venues {
		if vc.RecvWindowMs == 0 {
			vc.RecvWindowMs = 5000
		}
		if vc.HTTPTimeoutSec == 0 {
			vc.HTTPTimeoutSec = 15
		}
		if vc.RateLimitPerSec == 0 {
			vc.RateLimitPerSec = 10
		}
		c.Venues[venue] = vc
	}
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error")
	}
	if len(c.Venues) == 0 {
		return fmt.Errorf("at least one venue is required")
	}
	for venue, vc := range c.Venues {
		switch venue {
		case VenueBinance, VenueOKX, VenueHTX:
		default:
			return fmt.Errorf("unknown venue %q", venue)
		}
		if (vc.APIKey == "") != (vc.APISecret == "") {
			return fmt.Errorf("%s: api_key and api_secret must be set together", venue)
		}
		if venue == VenueOKX && vc.APIKey != "" && vc.Passphrase == "" {
			return fmt.Errorf("%s: passphrase is required alongside credentials", venue)
		}
		if vc.RecvWindowMs < 1 || vc.RecvWindowMs > 60000 {
			return fmt.Errorf("%s: recv_window_ms must be between 1 and 60000", venue)
		}
		if vc.HTTPTimeoutSec < 1 || vc.HTTPTimeoutSec > 120 {
			return fmt.Errorf("%s: http_timeout_sec must be between 1 and 120", venue)
		}
		if vc.RateLimitPerSec < 1 || vc.RateLimitPerSec > 1000 {
			return fmt.Errorf("%s: rate_limit_per_sec must be between 1 and 1000", venue)
		}
		if vc.TakerFee.Cmp(decimal.Zero) < 0 {
			return fmt.Errorf("%s: taker_fee must be >= 0", venue)
		}
		if vc.MakerFee.Cmp(decimal.Zero) < 0 {
			return fmt.Errorf("%s: maker_fee must be >= 0", venue)
		}
		if vc.BaseURL != "" {
			if err := validateURL(vc.BaseURL, "http", "https"); err != nil {
				return fmt.Errorf("%s: base_url %v", venue, err)
			}
		}
	}
	return nil
}

// Venue returns the named venue section, failing when the config does
// not mention it.
func (c Config) Venue(name Venue) (VenueConfig, error) {
	vc, ok := c.Venues[name]
	if !ok {
		return VenueConfig{}, fmt.Errorf("venue %q not configured", name)
	}
	return vc, nil
}

func validateURL(raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("must include scheme and host")
	}
	for _, s := range schemes {
		if parsed.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("scheme must be %s", strings.Join(schemes, " or "))
}
