package agent

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is where an unconfigured agent sends its snapshots.
const DefaultServerURL = "http://127.0.0.1:5000/api/monitor"

// DefaultInterval is the time between two pushes.
const DefaultInterval = 60 * time.Second

// Config controls where and how often the agent reports.
type Config struct {
	ServerURL string        `yaml:"server_url"`
	Interval  time.Duration `yaml:"interval"`
	// MachineName overrides the reported name. Empty means os.Hostname.
	MachineName string `yaml:"machine_name,omitempty"`
}

// DefaultConfig returns the configuration written for a first run.
func DefaultConfig() Config {
	return Config{ServerURL: DefaultServerURL, Interval: DefaultInterval}
}

// LoadConfig reads the YAML file at path. When the file does not exist it is
// created with DefaultConfig so the operator has something to edit, and the
// defaults are returned. Fields missing from an existing file keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := writeConfig(path, cfg); err != nil {
			return Config{}, err
		}
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.MachineName == "" {
		name, err := os.Hostname()
		if err != nil {
			return Config{}, fmt.Errorf("resolve machine name: %w", err)
		}
		cfg.MachineName = name
	}
	return cfg, nil
}

func (c Config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("server_url %q must be an absolute http(s) URL", c.ServerURL)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	return nil
}

func writeConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
