// Package config handles TOML-based server configuration loading and
// validation.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all server configuration.
type Config struct {
	Listen          string         `toml:"listen"`
	PublicBaseURL   string         `toml:"public_base_url"`
	DefaultQuality  string         `toml:"default_quality"`
	AlternativesCap int            `toml:"alternatives_cap"`
	LogLevel        string         `toml:"log_level"`
	Quality         map[string]int `toml:"quality"`

	Relay RelayConfig `toml:"relay"`
	YtDlp YtDlpConfig `toml:"ytdlp"`
}

// RelayConfig tunes the stream relay.
type RelayConfig struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	InlineLimit    int    `toml:"inline_limit"`
}

// YtDlpConfig tunes the extraction collaborator.
type YtDlpConfig struct {
	Path               string   `toml:"path"`
	ClientProfiles     []string `toml:"client_profiles"`
	SocketTimeout      int      `toml:"socket_timeout"`
	GeoBypass          bool     `toml:"geo_bypass"`
	NoCheckCertificate bool     `toml:"no_check_certificate"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Listen:          ":8080",
		DefaultQuality:  "720p",
		AlternativesCap: 15,
		LogLevel:        "info",
		Quality: map[string]int{
			"360p":  360,
			"480p":  480,
			"720p":  720,
			"1080p": 1080,
			"1440p": 1440,
			"2160p": 2160,
		},
		Relay: RelayConfig{
			TimeoutSeconds: 30,
			InlineLimit:    1_000_000,
		},
		YtDlp: YtDlpConfig{
			Path:           "yt-dlp",
			ClientProfiles: []string{"ios", "android"},
			SocketTimeout:  30,
			GeoBypass:      true,
		},
	}
}

// Load reads the config file at path and merges it over defaults.
// An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.AlternativesCap <= 0 {
		return fmt.Errorf("alternatives_cap must be positive, got %d", c.AlternativesCap)
	}
	if c.Relay.TimeoutSeconds <= 0 {
		return fmt.Errorf("relay timeout must be positive, got %d", c.Relay.TimeoutSeconds)
	}
	if c.Relay.InlineLimit <= 0 {
		return fmt.Errorf("relay inline_limit must be positive, got %d", c.Relay.InlineLimit)
	}
	for label, height := range c.Quality {
		if height < 0 {
			return fmt.Errorf("quality %q maps to negative height %d", label, height)
		}
	}
	if c.YtDlp.Path == "" {
		return fmt.Errorf("ytdlp path cannot be empty")
	}
	return nil
}
