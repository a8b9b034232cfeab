// Package config loads the server configuration: embedded defaults, an
// optional YAML file on top, then environment overrides.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"ecosystem-server/internal/engine"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Engine  EngineConfig  `yaml:"engine"`
	Catalog CatalogConfig `yaml:"catalog"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// StorageConfig selects the persistence collaborator.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite or memory
	Path   string `yaml:"path"`
}

type EngineConfig struct {
	Seed           int64   `yaml:"seed"`
	ReattackChance float64 `yaml:"reattack_chance"`
	MaxExchanges   int     `yaml:"max_exchanges"`
	AsyncThreshold int     `yaml:"async_threshold"`
	MaxTicks       int     `yaml:"max_ticks"`
	Workers        int     `yaml:"workers"`
	QueueSize      int     `yaml:"queue_size"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
	Seed bool   `yaml:"seed"` // seed templates and ecosystems at startup
}

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Load reads the embedded defaults, merges the file at path over them when
// path is set, then applies ECO_PORT, ECO_DB, LOG_LEVEL and LOG_FORMAT.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("ECO_PORT"); ok && v != "" {
		c.Server.Port = v
	}
	if v, ok := lookup("ECO_DB"); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		c.Log.Format = v
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Engine.ReattackChance < 0 || c.Engine.ReattackChance > 1 {
		return fmt.Errorf("engine.reattack_chance must be within [0, 1], got %v", c.Engine.ReattackChance)
	}
	if c.Engine.AsyncThreshold < 0 || c.Engine.MaxTicks < 0 {
		return fmt.Errorf("engine tick limits cannot be negative")
	}
	return nil
}

// EngineConfig converts the engine section into the engine's own config.
// Zero values keep the engine defaults.
func (c *Config) EngineConfig() engine.Config {
	ec := engine.NewConfig()
	e := c.Engine
	ec.Seed = e.Seed
	if e.ReattackChance > 0 {
		ec.ReattackChance = e.ReattackChance
	}
	if e.MaxExchanges > 0 {
		ec.MaxExchanges = e.MaxExchanges
	}
	if e.AsyncThreshold > 0 {
		ec.AsyncThreshold = e.AsyncThreshold
	}
	if e.MaxTicks > 0 {
		ec.MaxTicks = e.MaxTicks
	}
	if e.Workers > 0 {
		ec.Workers = e.Workers
	}
	if e.QueueSize > 0 {
		ec.QueueSize = e.QueueSize
	}
	return ec
}
