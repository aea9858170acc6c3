package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"svcreg/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure for svcreg.
type Config struct {
	Server   ServerConfig             `yaml:"server"`
	Log      LogConfig                `yaml:"log"`
	Services map[string]ServiceConfig `yaml:"services,omitempty"`
}

// ServerConfig defines the HTTP readiness surface.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"` // Listen address (default: ":8090")
}

// LogConfig defines logging behavior.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// Duration wraps time.Duration with YAML support for strings like "150ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServiceConfig tunes one sample service of the demo application.
type ServiceConfig struct {
	SetupDelay Duration `yaml:"setupDelay,omitempty"` // Artificial latency added to Setup
	FailSetup  bool     `yaml:"failSetup,omitempty"`  // Force Setup to fail
	FailProbe  bool     `yaml:"failProbe,omitempty"`  // Force the readiness probe to report false
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8090"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from the given YAML file, merged over defaults.
// A missing file yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config file at %s, using defaults", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config from %s: %w", path, err)
	}
	logging.Info("Config", "Loaded configuration from %s", path)
	return cfg, nil
}

// Service returns the tuning for one sample service, falling back to the
// zero value when the section is absent.
func (c Config) Service(name string) ServiceConfig {
	return c.Services[name]
}
