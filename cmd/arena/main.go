// Command arena runs the particle arena battle in a terminal, headless, or as a seeded batch
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/status"
)

const (
	modeInteractive = "interactive"
	modeHeadless    = "headless"
	modeBatch       = "batch"
)

type options struct {
	configPath string
	dumpConfig bool
	mode       string
	fights     int
	jobs       int
	maxTicks   uint64
	debug      bool
	mute       bool

	seed       uint64
	population int
	workers    int
	backend    string
	endless    bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "YAML config file, decoded over defaults")
	fs.BoolVar(&o.dumpConfig, "dump-config", false, "Print the effective config as YAML and exit")
	fs.StringVar(&o.mode, "mode", modeInteractive, "Run mode: interactive, headless, batch")
	fs.IntVar(&o.fights, "fights", 16, "Number of fights in batch mode")
	fs.IntVar(&o.jobs, "jobs", 0, "Concurrent fights in batch mode (0 = GOMAXPROCS)")
	fs.Uint64Var(&o.maxTicks, "max-ticks", 200000, "Tick limit per fight in headless and batch modes")
	fs.BoolVar(&o.debug, "debug", false, "Write debug log to logs/arena.log")
	fs.BoolVar(&o.mute, "mute", false, "Disable audio cues")

	fs.Uint64Var(&o.seed, "seed", 0, "Override the config seed")
	fs.IntVar(&o.population, "population", 0, "Override the config population")
	fs.IntVar(&o.workers, "workers", 0, "Override the parallel backend worker count")
	fs.StringVar(&o.backend, "backend", "", "Override the backend: sequential, parallel")
	fs.BoolVar(&o.endless, "endless", false, "Override endless mode")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch o.mode {
	case modeInteractive, modeHeadless, modeBatch:
	default:
		return o, fmt.Errorf("unknown mode %q", o.mode)
	}
	if o.fights < 1 {
		return o, fmt.Errorf("fights %d must be positive", o.fights)
	}
	return o, nil
}

// loadConfig reads the config file and applies the flags that were explicitly set
func loadConfig(fs *flag.FlagSet, o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = o.seed
		case "population":
			cfg.Population = o.population
		case "workers":
			cfg.Workers = o.workers
		case "backend":
			cfg.Backend = config.Backend(o.backend)
		case "endless":
			cfg.Endless = o.endless
		}
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("arena", flag.ContinueOnError)
	o, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(fs, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		return 2
	}

	if o.dumpConfig {
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			return 1
		}
		stdout.Write(data)
		return 0
	}

	logger, logFile, err := setupLogging(logDir, o.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch o.mode {
	case modeHeadless:
		metrics := status.NewRegistry()
		res, err := runFight(ctx, cfg, o.maxTicks, logger, metrics)
		if err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, res.String())
		if err := writeMetrics(stdout, metrics); err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			return 1
		}
	case modeBatch:
		sum, err := runBatch(ctx, cfg, o.fights, o.jobs, o.maxTicks, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			return 1
		}
		if err := sum.WriteJSON(stdout); err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			return 1
		}
	default:
		if err := runInteractive(ctx, cfg, !o.mute, logger); err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			return 1
		}
	}
	return 0
}
