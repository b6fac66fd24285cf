package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type ServerConfig struct {
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

func (c *ServerConfig) SetDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

func (c ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Addr returns the listen address for net/http.
func (c ServerConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// ReferenceConfig selects where emission factor tables come from. For the
// file source, Path is either a directory of CSV tables or an .xlsx workbook.
type ReferenceConfig struct {
	Source string `json:"source"`
	Path   string `json:"path"`
}

func (c *ReferenceConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = SourceFile
	}
	c.Source = strings.ToLower(c.Source)
	if c.Path == "" && c.Source == SourceFile {
		c.Path = "data/reference"
	}
}

func (c ReferenceConfig) Validate() error {
	switch c.Source {
	case SourceFile:
		if c.Path == "" {
			return errors.New("reference.path is required for the file source")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("reference.source must be %q or %q, got %q", SourceFile, SourcePostgres, c.Source)
	}
	return nil
}

type DatabaseConfig struct {
	URL string `json:"url"`
}

func (c *DatabaseConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = os.Getenv("DATABASE_URL")
	}
}

func (c DatabaseConfig) validateFor(source string) error {
	if source == SourcePostgres && c.URL == "" {
		return errors.New("database.url (or DATABASE_URL) is required when reference.source is postgres")
	}
	return nil
}

// DefaultsConfig holds the fallbacks applied when a request omits the
// packaging material or the disposal method.
type DefaultsConfig struct {
	Material       string `json:"material"`
	DisposalMethod string `json:"disposal_method"`
}

func (c *DefaultsConfig) SetDefaults() {
	if c.Material == "" {
		c.Material = "Cardboard"
	}
	if c.DisposalMethod == "" {
		c.DisposalMethod = "Recycling"
	}
}

func (c DefaultsConfig) Validate() error { return nil }

type GeocoderConfig struct {
	// Enabled is a pointer so an explicit false survives SetDefaults.
	Enabled           *bool         `json:"enabled"`
	BaseURL           string        `json:"base_url"`
	UserAgent         string        `json:"user_agent"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	Timeout           time.Duration `json:"timeout"`
}

func (c *GeocoderConfig) SetDefaults() {
	if c.Enabled == nil {
		on := true
		c.Enabled = &on
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.UserAgent == "" {
		c.UserAgent = "shipment-emissions-service/1.0"
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 1
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}

func (c GeocoderConfig) Validate() error {
	if !c.IsEnabled() {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("geocoder.requests_per_second must be positive, got %v", c.RequestsPerSecond)
	}
	if c.UserAgent == "" {
		return errors.New("geocoder.user_agent is required")
	}
	return nil
}

func (c GeocoderConfig) IsEnabled() bool { return c.Enabled != nil && *c.Enabled }

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`

	levelSet bool
}

// LevelSet reports whether the level came from the config file or the
// environment rather than from defaults.
func (c LoggingConfig) LevelSet() bool { return c.levelSet }

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
		if os.Getenv("APP_ENV") == "dev" {
			c.Format = "console"
		}
	}
}

func (c LoggingConfig) Validate() error {
	switch c.Format {
	case "json", "console":
		return nil
	}
	return fmt.Errorf("logging.format must be json or console, got %q", c.Format)
}

// TracingConfig enables OTLP export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string `json:"endpoint"`
	Environment string `json:"environment"`
}

func (c *TracingConfig) SetDefaults() {
	if c.Environment == "" {
		c.Environment = Get("APP_ENV", "production")
	}
}

type ChatConfig struct {
	SessionTTL         time.Duration `json:"session_ttl"`
	AverageSpeedKmPerH float64       `json:"average_speed_kmh"`
}

func (c *ChatConfig) SetDefaults() {
	if c.SessionTTL == 0 {
		c.SessionTTL = 30 * time.Minute
	}
	if c.AverageSpeedKmPerH == 0 {
		c.AverageSpeedKmPerH = 60
	}
}

func (c ChatConfig) Validate() error {
	if c.AverageSpeedKmPerH <= 0 {
		return fmt.Errorf("chat.average_speed_kmh must be positive, got %v", c.AverageSpeedKmPerH)
	}
	return nil
}
