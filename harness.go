// Package harness wires discovery, execution and reporting into a service
// that runs a body of tests once or on a fixed interval.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-harness/discovery"
	"github.com/ethereum-optimism/infra/op-harness/exitcodes"
	"github.com/ethereum-optimism/infra/op-harness/metrics"
	"github.com/ethereum-optimism/infra/op-harness/registry"
	"github.com/ethereum-optimism/infra/op-harness/reporting"
	"github.com/ethereum-optimism/infra/op-harness/runner"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Harness discovers and runs tests for the configured roots.
type Harness struct {
	ctx        context.Context
	config     *Config
	version    string
	discoverer *discovery.Discoverer
	runner     *runner.Runner
	result     *types.ResultSet

	running atomic.Bool
	done    chan struct{}
	wg      sync.WaitGroup

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Harness, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if len(config.Roots) == 0 {
		return nil, errors.New("no targets to run")
	}
	if config.Log == nil {
		config.Log = log.New()
	}

	config.Log.Debug("Creating harness with config",
		"roots", len(config.Roots),
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce,
		"xmlReport", config.XMLReport)

	return &Harness{
		ctx:              ctx,
		config:           config,
		version:          version,
		discoverer:       discovery.New(config.Log),
		runner:           runner.New(runner.Config{Log: config.Log}),
		done:             make(chan struct{}),
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the tests immediately and, unless in run-once mode, keeps
// re-running them at the configured interval until stopped.
func (h *Harness) Start(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			h.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	h.ctx = ctx
	h.done = make(chan struct{})
	h.running.Store(true)

	if h.config.RunOnce {
		h.config.Log.Info("Starting op-harness in run-once mode")
	} else {
		h.config.Log.Info("Starting op-harness in continuous mode", "interval", h.config.RunInterval)
	}

	err := h.runTests()
	if err != nil {
		h.config.Log.Error("Runtime error running tests", "error", err)
		return cli.Exit(err.Error(), exitcodes.RuntimeErr)
	}

	if h.config.RunOnce {
		h.config.Log.Info("Tests completed, exiting (run-once mode)")

		if h.result != nil && h.result.Summary.Status() == types.StatusFail {
			h.config.Log.Warn("Run-once test run completed with failures, returning exit code 1")
			return NewTestFailureError(h.result.Summary.String())
		}

		go func() {
			h.shutdownCallback(nil)
		}()
		return nil
	}

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.config.Log.Debug("Starting periodic test runner goroutine", "interval", h.config.RunInterval)

		for {
			select {
			case <-time.After(h.config.RunInterval):
				if !h.running.Load() {
					h.config.Log.Debug("Service stopped, exiting periodic test runner")
					return
				}

				h.config.Log.Info("Running periodic tests")
				if err := h.runTests(); err != nil {
					h.config.Log.Error("Error running periodic tests", "error", err)
				}

			case <-h.done:
				h.config.Log.Debug("Done signal received, stopping periodic test runner")
				return

			case <-ctx.Done():
				h.config.Log.Debug("Context canceled, stopping periodic test runner")
				h.running.Store(false)
				return
			}
		}
	}()
	h.config.Log.Debug("op-harness started successfully")
	return nil
}

// runTests discovers and runs every configured root, then reports the
// combined results.
func (h *Harness) runTests() error {
	runID := uuid.New().String()
	h.config.Log.Info("Running all tests...", "run_id", runID)

	rm := &runner.ResultManager{}
	for _, root := range h.config.Roots {
		rs, err := h.runRoot(root)
		if err != nil {
			return NewRuntimeError(err)
		}
		rm.Merge(rs)
	}
	h.result = rm.ResultSet()

	h.printResultsTable(runID)
	reporting.RenderText(os.Stdout, h.result)
	metrics.RecordRun(h.config.TestsuiteName, runID, h.result)

	if h.config.XMLReport {
		if err := h.writeXMLReport(); err != nil {
			return NewRuntimeError(err)
		}
	}

	h.config.Log.Info("Test run completed",
		"run_id", runID,
		"status", h.result.Summary.Status())
	return nil
}

// runRoot discovers the units under a single root and runs them. A named
// root replaces the on-disk location in reported results.
func (h *Harness) runRoot(root registry.Root) (*types.ResultSet, error) {
	units, err := h.discoverer.Discover(root.Path, root.Test)
	if err != nil {
		return nil, fmt.Errorf("failed to discover tests under %s: %w", root.Path, err)
	}
	if root.Name != "" {
		for _, unit := range units {
			unit.SetLocation(filepath.Join(root.Name, filepath.Base(unit.Location())))
		}
	}
	return h.runner.Run(h.ctx, units, root.Test), nil
}

func (h *Harness) writeXMLReport() error {
	if err := reporting.WriteXML(h.result, h.config.TestsuiteName, h.config.XMLPath); err != nil {
		return err
	}
	abs, err := filepath.Abs(h.config.XMLPath)
	if err != nil {
		abs = h.config.XMLPath
	}
	h.config.Log.Info("Wrote XML report", "path", abs)
	return nil
}

// Stop stops the harness service.
func (h *Harness) Stop(ctx context.Context) error {
	h.config.Log.Info("Stopping op-harness")

	if !h.running.Load() {
		h.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	h.running.Store(false)
	h.config.Log.Debug("Sending done signal to goroutines")
	close(h.done)

	h.config.Log.Info("op-harness stopped successfully")
	return nil
}

// Stopped returns true if the harness service is stopped.
func (h *Harness) Stopped() bool {
	return !h.running.Load()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (h *Harness) WaitForShutdown(ctx context.Context) error {
	h.config.Log.Debug("Waiting for all goroutines to terminate")

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.config.Log.Debug("All goroutines terminated successfully")
		return nil
	case <-ctx.Done():
		h.config.Log.Warn("Timed out waiting for goroutines to terminate", "error", ctx.Err())
		return ctx.Err()
	}
}
