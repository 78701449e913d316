package flags

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "OP_HARNESS"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))}
}

var (
	RunConfig = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to a run config file (eg. 'harness.yaml') declaring multiple targets",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Lowest log level that will be output (trace|debug|info|warn|error|crit)",
	}
	XMLReport = &cli.BoolFlag{
		Name:    "xml-report",
		Value:   false,
		EnvVars: prefixEnvVars("XML_REPORT"),
		Usage:   "Write a JUnit-style XML report after the run",
	}
	XMLPath = &cli.StringFlag{
		Name:    "xml-path",
		Value:   "test.xml",
		EnvVars: prefixEnvVars("XML_PATH"),
		Usage:   "Path of the XML report file",
	}
	XMLTestsuiteName = &cli.StringFlag{
		Name:    "xml-testsuite-name",
		Value:   "op-harness",
		EnvVars: prefixEnvVars("XML_TESTSUITE_NAME"),
		Usage:   "Testsuite name attribute used in the XML report",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between test runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
)

var Flags = []cli.Flag{
	RunConfig,
	LogLevel,
	XMLReport,
	XMLPath,
	XMLTestsuiteName,
	RunInterval,
}

// CheckRequired verifies the invocation names something to run: either
// positional targets or a run config file.
func CheckRequired(ctx *cli.Context) error {
	if ctx.Args().Len() == 0 && !ctx.IsSet(RunConfig.Name) {
		return fmt.Errorf("expected a target path or --%s", RunConfig.Name)
	}
	return nil
}
