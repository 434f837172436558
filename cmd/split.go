// cmd/split.go

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"PageSplit/pkg/config"
	"PageSplit/pkg/splitter"
	"PageSplit/pkg/utils"

	"github.com/urfave/cli/v2"
)

func splitFlagList() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML file with split settings, flags take precedence",
			EnvVars: []string{"SPLIT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "input file, its size must be a multiple of 4096 bytes",
			EnvVars: []string{"SPLIT_INPUT"},
		},
		&cli.Float64Flag{
			Name:    "memory-pct",
			Value:   20.0,
			Usage:   "percent of each worker's memory to use for buffering pages",
			EnvVars: []string{"SPLIT_MEMORY_PCT"},
		},
		&cli.StringFlag{
			Name:    "memory",
			Usage:   "memory shared by all workers (e.g. 8GiB), default is the physical memory",
			EnvVars: []string{"SPLIT_MEMORY"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "number of workers, default is the number of CPUs",
			EnvVars: []string{"SPLIT_WORKERS"},
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Value:   ".",
			Usage:   "directory for chunk files",
			EnvVars: []string{"SPLIT_OUTPUT_DIR"},
		},
		&cli.BoolFlag{
			Name:    "direct-io",
			Value:   true,
			Usage:   "read the input with direct I/O, bypassing the page cache",
			EnvVars: []string{"SPLIT_DIRECT_IO"},
		},
		&cli.BoolFlag{
			Name:    "fsync",
			Usage:   "sync every chunk file before closing it",
			EnvVars: []string{"SPLIT_FSYNC"},
		},
		&cli.StringFlag{
			Name:    "write-limit",
			Usage:   "chunk write bandwidth per worker (e.g. 100MB), 0 means unlimited",
			EnvVars: []string{"SPLIT_WRITE_LIMIT"},
		},
		&cli.DurationFlag{
			Name:    "interval",
			Value:   config.Default().Interval,
			Usage:   "interval of progress reports",
			EnvVars: []string{"SPLIT_INTERVAL"},
		},
		&cli.BoolFlag{
			Name:    "progress",
			Aliases: []string{"p"},
			Usage:   "show progress bars",
			EnvVars: []string{"SPLIT_PROGRESS"},
		},
	}
}

func splitFlags() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "split a file into chunk.worker-<id>.<seq> files",
		ArgsUsage: "[INPUT]",
		Action:    split,
		Flags:     splitFlagList(),
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if p := c.String("config"); p != "" {
		if !utils.Exists(p) {
			return cfg, fmt.Errorf("config file %s does not exist", p)
		}
		var err error
		if cfg, err = config.LoadFromFile(p); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("input") {
		cfg.Input = c.String("input")
	} else if cfg.Input == "" && c.Args().Len() > 0 {
		cfg.Input = c.Args().Get(0)
	}
	if c.IsSet("memory-pct") {
		cfg.MemoryPct = c.Float64("memory-pct")
	}
	if c.IsSet("memory") {
		n, err := config.ParseBytes(c.String("memory"))
		if err != nil {
			return cfg, fmt.Errorf("invalid --memory: %w", err)
		}
		cfg.MemoryBudget = n
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("direct-io") {
		cfg.DirectIO = c.Bool("direct-io")
	}
	if c.IsSet("fsync") {
		cfg.Fsync = c.Bool("fsync")
	}
	if c.IsSet("write-limit") {
		n, err := config.ParseBytes(c.String("write-limit"))
		if err != nil {
			return cfg, fmt.Errorf("invalid --write-limit: %w", err)
		}
		cfg.WriteLimit = n
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("progress") {
		cfg.Progress = c.Bool("progress")
	}
	return cfg, cfg.Validate()
}

func split(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := splitter.New(cfg, logger)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
