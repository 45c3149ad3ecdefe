// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml files can say "50ms" or "2s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"50ms\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// WatcherConfig controls the match poll loop. These are orchestration
// knobs, not protocol behavior.
type WatcherConfig struct {
	Interval    Duration `yaml:"interval"`      // poll period
	StopOnMatch bool     `yaml:"stop_on_match"` // halt all nodes once a match exists
}

// SearchConfig controls signal propagation.
type SearchConfig struct {
	MinHops      int `yaml:"min_hops"`      // initial hop counter is drawn from [MinHops, MaxHops]
	MaxHops      int `yaml:"max_hops"`      // so the counter value does not reveal endpoint proximity
	SignalBuffer int `yaml:"signal_buffer"` // per-node inbox capacity
}

// NodeConfig describes the simulated nodes' fee behavior.
type NodeConfig struct {
	MaxFee  int64 `yaml:"max_fee"`  // per-endpoint fee tolerance; combined budget is the sum of both
	FeeRate int64 `yaml:"fee_rate"` // flat charge per relay hop
}

type Config struct {
	Watcher WatcherConfig `yaml:"watcher"`
	Search  SearchConfig  `yaml:"search"`
	Node    NodeConfig    `yaml:"node"`
}

// Default returns the configuration used when no file is supplied. The
// hop counter range matches the reference behavior of drawing from
// [64, 128].
func Default() *Config {
	return &Config{
		Watcher: WatcherConfig{
			Interval:    Duration(50 * time.Millisecond),
			StopOnMatch: true,
		},
		Search: SearchConfig{
			MinHops:      64,
			MaxHops:      128,
			SignalBuffer: 1024,
		},
		Node: NodeConfig{
			MaxFee:  100,
			FeeRate: 1,
		},
	}
}

// Load reads a yaml config file on top of the defaults, so a file only
// needs to name the fields it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Watcher.Interval <= 0 {
		return fmt.Errorf("watcher interval must be positive, got %v", c.Watcher.Interval.Std())
	}
	if c.Search.MinHops <= 0 || c.Search.MaxHops < c.Search.MinHops {
		return fmt.Errorf("hop range [%d, %d] is invalid", c.Search.MinHops, c.Search.MaxHops)
	}
	if c.Search.SignalBuffer <= 0 {
		return fmt.Errorf("signal buffer must be positive, got %d", c.Search.SignalBuffer)
	}
	if c.Node.MaxFee < 0 || c.Node.FeeRate < 0 {
		return fmt.Errorf("fees cannot be negative")
	}
	return nil
}
