// pkg/config/config.go

// Package config defines the settings of a split run.
package config

import (
	"os"
	"runtime"
	"time"

	"PageSplit/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config for a split run.
type Config struct {
	Input        string        // file to split
	OutputDir    string        // where chunk files are created
	MemoryPct    float64       // percent of each worker's memory used for buffering
	MemoryBudget int64         // memory shared by all workers, in bytes
	Workers      int           // requested number of workers
	DirectIO     bool          // bypass the page cache when reading
	Fsync        bool          // sync every chunk file before closing it
	WriteLimit   int64         // chunk write bandwidth of each worker, bytes per second
	Interval     time.Duration // progress poll interval
	Progress     bool          // draw progress bars
}

// Default returns a Config with the defaults of the split command.
func Default() Config {
	return Config{
		OutputDir:    ".",
		MemoryPct:    20.0,
		MemoryBudget: int64(utils.TotalMemory()),
		Workers:      runtime.NumCPU(),
		DirectIO:     true,
		Interval:     time.Second,
	}
}

// MemoryFraction returns MemoryPct as a fraction of one.
func (c *Config) MemoryFraction() float64 {
	return c.MemoryPct / 100.0
}

// WorkerBudget returns the memory available to each of workers workers.
func (c *Config) WorkerBudget(workers int) int64 {
	if workers < 1 {
		workers = 1
	}
	return c.MemoryBudget / int64(workers)
}

// Validate checks the configuration before any file is opened.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("config: input is required")
	}
	if c.MemoryPct <= 0 || c.MemoryPct > 100 {
		return errors.Errorf("config: memory-pct %v must be in (0, 100]", c.MemoryPct)
	}
	if c.MemoryBudget <= 0 {
		return errors.New("config: memory budget is unknown, set it explicitly")
	}
	if c.Workers < 1 {
		return errors.New("config: workers must be positive")
	}
	if c.WriteLimit < 0 {
		return errors.New("config: write limit must not be negative")
	}
	if c.Interval <= 0 {
		return errors.New("config: interval must be positive")
	}
	return nil
}

type yamlConfig struct {
	Input      string  `yaml:"input"`
	OutputDir  string  `yaml:"output_dir"`
	MemoryPct  float64 `yaml:"memory_pct"`
	Memory     string  `yaml:"memory"`
	Workers    int     `yaml:"workers"`
	DirectIO   *bool   `yaml:"direct_io"`
	Fsync      bool    `yaml:"fsync"`
	WriteLimit string  `yaml:"write_limit"`
	Interval   string  `yaml:"interval"`
	Progress   bool    `yaml:"progress"`
}

// LoadFromFile reads a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}

	cfg := Default()
	if yc.Input != "" {
		cfg.Input = yc.Input
	}
	if yc.OutputDir != "" {
		cfg.OutputDir = yc.OutputDir
	}
	if yc.MemoryPct != 0 {
		cfg.MemoryPct = yc.MemoryPct
	}
	if yc.Memory != "" {
		if cfg.MemoryBudget, err = ParseBytes(yc.Memory); err != nil {
			return Config{}, errors.Wrap(err, "parse memory")
		}
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.DirectIO != nil {
		cfg.DirectIO = *yc.DirectIO
	}
	cfg.Fsync = yc.Fsync
	if yc.WriteLimit != "" {
		if cfg.WriteLimit, err = ParseBytes(yc.WriteLimit); err != nil {
			return Config{}, errors.Wrap(err, "parse write_limit")
		}
	}
	if yc.Interval != "" {
		if cfg.Interval, err = time.ParseDuration(yc.Interval); err != nil {
			return Config{}, errors.Wrap(err, "parse interval")
		}
	}
	cfg.Progress = yc.Progress
	return cfg, nil
}

// ParseBytes parses a human-readable size such as "4GiB" or "200MB".
func ParseBytes(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse size %q", s)
	}
	if n > 1<<62 {
		return 0, errors.Errorf("size %s is too large", s)
	}
	return int64(n), nil
}
