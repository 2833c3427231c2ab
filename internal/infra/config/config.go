// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/19radio/internal/domain/station"
)

// Config represents the application configuration.
type Config struct {
	Catalog     CatalogConfig     `yaml:"catalog"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Player      PlayerConfig      `yaml:"player"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Server      ServerConfig      `yaml:"server"`
}

// CatalogConfig represents the station list source.
type CatalogConfig struct {
	URL      string          `yaml:"url" validate:"required,url"`
	Timeout  time.Duration   `yaml:"timeout" default:"10s" validate:"gt=0"`
	Auth     AuthConfig      `yaml:"auth"`
	Stations []StationConfig `yaml:"stations" validate:"dive"`
}

// AuthConfig represents optional OAuth2 client credentials for the station list.
type AuthConfig struct {
	TokenURL     string   `yaml:"token_url" validate:"required_with=ClientID"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret" validate:"required_with=ClientID"`
	Scopes       []string `yaml:"scopes"`
}

// StationConfig is a station shown before the first successful fetch.
type StationConfig struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"required"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	Volume         *int `yaml:"volume" default:"50" validate:"omitempty,gte=0,lte=100"`
	TickIntervalMs int  `yaml:"tick_interval_ms" default:"100" validate:"gte=10,lte=5000"`
}

// PlayerConfig represents the audio output configuration.
type PlayerConfig struct {
	Type      string   `yaml:"type" default:"log" validate:"oneof=log exec"`
	Command   string   `yaml:"command" default:"mpv"`
	Args      []string `yaml:"args"`
	VolumeArg string   `yaml:"volume_arg" default:"--volume=%d"`
}

// PersistenceConfig represents where the last selection is stored.
type PersistenceConfig struct {
	Driver string `yaml:"driver" default:"none" validate:"oneof=none file sqlite"`
	Path   string `yaml:"path" validate:"required_unless=Driver none"`
}

// ServerConfig represents the remote control server configuration.
type ServerConfig struct {
	Addr  string `yaml:"addr"` // Empty disables the server
	Token string `yaml:"token"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("RADIO_CATALOG_URL"); v != "" {
		c.Catalog.URL = v
	}
	if v := os.Getenv("RADIO_CATALOG_CLIENT_SECRET"); v != "" {
		c.Catalog.Auth.ClientSecret = v
	}
	if v := os.Getenv("RADIO_SERVER_TOKEN"); v != "" {
		c.Server.Token = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// DefaultCatalog returns the stations configured for display before the first fetch.
func (c *Config) DefaultCatalog() station.Catalog {
	catalog := make(station.Catalog, 0, len(c.Catalog.Stations))
	for _, s := range c.Catalog.Stations {
		catalog = append(catalog, station.Station{Name: s.Name, StreamURL: s.URL})
	}
	return catalog
}

// TickInterval returns the loop polling interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Playback.TickIntervalMs) * time.Millisecond
}

// HasAuth reports whether OAuth2 client credentials are configured.
func (c *Config) HasAuth() bool {
	return c.Catalog.Auth.ClientID != ""
}
