// Package config defines the renderer's process configuration.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AssetsDir is the root of the bundled images and font.
	AssetsDir string `koanf:"assets_dir"`

	// FontFamily is the family name the bundled font is registered under.
	FontFamily string `koanf:"font_family"`

	// SourceURL is the base URL of the player record service; the subject id
	// is appended as the last path segment.
	SourceURL string `koanf:"source_url"`

	// HTTPTimeoutMS bounds every outbound HTTP request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`

	// RemoteRatePerSec and RemoteBurst shape remote image downloads.
	RemoteRatePerSec float64 `koanf:"remote_rate_per_sec"`
	RemoteBurst      int     `koanf:"remote_burst"`

	// OutputDir receives cards rendered in path mode through the API.
	OutputDir string `koanf:"output_dir"`

	// CacheWarm decodes every static asset at start-up.
	CacheWarm bool `koanf:"cache_warm"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		AssetsDir:        "assets",
		FontFamily:       "Genshin Impact",
		SourceURL:        "https://enka.network/api/uid",
		HTTPTimeoutMS:    10_000,
		RemoteRatePerSec: 20,
		RemoteBurst:      8,
		OutputDir:        "output",
		CacheWarm:        true,
	}
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}
