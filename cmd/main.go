package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	harness "github.com/ethereum-optimism/infra/op-harness"
	"github.com/ethereum-optimism/infra/op-harness/exitcodes"
	"github.com/ethereum-optimism/infra/op-harness/flags"
	"github.com/ethereum-optimism/infra/op-harness/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-harness"
	app.Usage = "Test discovery and execution harness"
	app.Description = "op-harness discovers tests under the given targets and runs them"
	app.ArgsUsage = "[path | path:test]..."
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if harness.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else if harness.IsTestFailureError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			} else {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Warn("Failed to setup open telemetry", "message", err)
	} else {
		defer otelShutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start sidecar servers
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context) error {
	logger, err := harness.NewLogger(ctx)
	if err != nil {
		return harness.NewRuntimeError(err)
	}
	log.SetDefault(logger)

	cfg, err := harness.NewConfig(ctx, logger)
	if err != nil {
		return harness.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	appCtx, cancel := context.WithCancelCause(ctx.Context)
	defer cancel(nil)

	h, err := harness.New(appCtx, cfg, Version, func(err error) { cancel(err) })
	if err != nil {
		return harness.NewRuntimeError(fmt.Errorf("failed to create harness: %w", err))
	}

	if err := h.Start(appCtx); err != nil {
		return err
	}

	// Block until a signal arrives or a run-once pass triggers shutdown.
	<-appCtx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := h.Stop(stopCtx); err != nil {
		return harness.NewRuntimeError(err)
	}
	return h.WaitForShutdown(stopCtx)
}
