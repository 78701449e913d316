package harness

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-harness/flags"
	"github.com/ethereum-optimism/infra/op-harness/registry"
)

// Config holds the application configuration
type Config struct {
	Roots         []registry.Root // Discovery targets for this invocation
	TestsuiteName string          // Suite name used for the XML report and metrics
	RunInterval   time.Duration   // Interval between test runs
	RunOnce       bool            // Indicates if the service should exit after one test run
	XMLReport     bool            // Write a JUnit-style XML report after each run
	XMLPath       string          // Path of the XML report file
	Log           log.Logger
}

// NewConfig creates a new Config from cli context. Discovery targets come
// from positional arguments (path or path:test), a run config file, or both.
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, err
	}

	suiteName := ctx.String(flags.XMLTestsuiteName.Name)

	var roots []registry.Root
	if file := ctx.String(flags.RunConfig.Name); file != "" {
		reg, err := registry.NewRegistry(registry.Config{Log: logger, File: file})
		if err != nil {
			return nil, fmt.Errorf("failed to load run config: %w", err)
		}
		roots = reg.Roots()
		suiteName = reg.TestsuiteName(suiteName)
	}
	for _, arg := range ctx.Args().Slice() {
		root, err := registry.ParseRootArg(arg)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)

	return &Config{
		Roots:         roots,
		TestsuiteName: suiteName,
		RunInterval:   runInterval,
		RunOnce:       runInterval == 0,
		XMLReport:     ctx.Bool(flags.XMLReport.Name),
		XMLPath:       ctx.String(flags.XMLPath.Name),
		Log:           logger,
	}, nil
}

// NewLogger builds the root logger from the log-level flag.
func NewLogger(ctx *cli.Context) (log.Logger, error) {
	lvl, err := levelFromString(ctx.String(flags.LogLevel.Name))
	if err != nil {
		return nil, err
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)), nil
}

// levelFromString maps a level name to its slog level. The long spellings
// "warning" and "critical" are accepted as aliases.
func levelFromString(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit", "critical":
		return log.LevelCrit, nil
	default:
		return log.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
}
