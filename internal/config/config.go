package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. Nested keys use "__", e.g.
// EMISSIONS_SERVER__PORT=9090 sets server.port.
const EnvPrefix = "EMISSIONS_"

type Config struct {
	Server    ServerConfig    `json:"server"`
	Reference ReferenceConfig `json:"reference"`
	Database  DatabaseConfig  `json:"database"`
	Defaults  DefaultsConfig  `json:"defaults"`
	Geocoder  GeocoderConfig  `json:"geocoder"`
	Logging   LoggingConfig   `json:"logging"`
	Tracing   TracingConfig   `json:"tracing"`
	Chat      ChatConfig      `json:"chat"`
}

// Load reads an optional YAML/JSON file, applies EMISSIONS_* environment
// overrides, fills defaults and validates every section.
// An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("load config: unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load config: environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("load config: decode: %w", err)
	}
	cfg.Logging.levelSet = strings.TrimSpace(k.String("logging.level")) != ""

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Reference.SetDefaults()
	c.Database.SetDefaults()
	c.Defaults.SetDefaults()
	c.Geocoder.SetDefaults()
	c.Logging.SetDefaults()
	c.Tracing.SetDefaults()
	c.Chat.SetDefaults()
}

func (c Config) Validate() error {
	return errors.Join(
		c.Server.Validate(),
		c.Reference.Validate(),
		c.Database.validateFor(c.Reference.Source),
		c.Defaults.Validate(),
		c.Geocoder.Validate(),
		c.Logging.Validate(),
		c.Chat.Validate(),
	)
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
