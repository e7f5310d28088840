package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the top-level YAML structure for engine tunables. Everything has
// a working default so the file is optional for local runs.
type Config struct {
	Server ServerConf `yaml:"server"`
	Engine EngineConf `yaml:"engine"`
	Notify NotifyConf `yaml:"notify"`
}

// ServerConf holds HTTP-facing settings.
type ServerConf struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// EngineConf holds pattern-detection tunables.
type EngineConf struct {
	MaxClusters      int     `yaml:"max_clusters"`
	DefaultThreshold float64 `yaml:"default_threshold"`
	ComputeWorkers   int     `yaml:"compute_workers"`
	ComputeTimeoutMs int     `yaml:"compute_timeout_ms"`
}

// NotifyConf holds delivery settings.
type NotifyConf struct {
	MinSendSpacingMs int    `yaml:"min_send_spacing_ms"`
	Subject          string `yaml:"subject"`
	RecipientDomain  string `yaml:"recipient_domain"`
}

// Default returns the built-in configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Server: ServerConf{
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:5174",
			},
		},
		Engine: EngineConf{
			MaxClusters:      5,
			DefaultThreshold: 80,
			ComputeWorkers:   2,
			ComputeTimeoutMs: 5000,
		},
		Notify: NotifyConf{
			MinSendSpacingMs: 500,
			Subject:          "Exclusive Offer Just for You!",
			RecipientDomain:  "example.com",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// not an error; a malformed or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.MaxClusters < 1 {
		return fmt.Errorf("engine.max_clusters must be >= 1, got %d", c.Engine.MaxClusters)
	}
	if c.Engine.DefaultThreshold < 0 || c.Engine.DefaultThreshold > 100 {
		return fmt.Errorf("engine.default_threshold must be in [0,100], got %v", c.Engine.DefaultThreshold)
	}
	if c.Engine.ComputeWorkers < 1 {
		return fmt.Errorf("engine.compute_workers must be >= 1, got %d", c.Engine.ComputeWorkers)
	}
	if c.Engine.ComputeTimeoutMs < 1 {
		return fmt.Errorf("engine.compute_timeout_ms must be >= 1, got %d", c.Engine.ComputeTimeoutMs)
	}
	if c.Notify.MinSendSpacingMs < 0 {
		return fmt.Errorf("notify.min_send_spacing_ms must be >= 0, got %d", c.Notify.MinSendSpacingMs)
	}
	return nil
}
