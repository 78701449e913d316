package flags

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that all flag names are unique, to avoid accidental conflicts between the many flags.
func TestUniqueFlags(t *testing.T) {
	seenCLI := make(map[string]struct{})
	for _, flag := range Flags {
		name := flag.Names()[0]
		if _, ok := seenCLI[name]; ok {
			t.Errorf("duplicate flag %s", name)
			continue
		}
		seenCLI[name] = struct{}{}
	}
}

func TestHasEnvVar(t *testing.T) {
	for _, flag := range Flags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlagGetter, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok, "must be able to cast the flag to an EnvVar interface")
			envFlags := envFlagGetter.GetEnvVars()
			require.Equal(t, 1, len(envFlags), "flags should have exactly one env var")
		})
	}
}

func TestEnvVarFormat(t *testing.T) {
	for _, flag := range Flags {
		flagName := flag.Names()[0]

		t.Run(flagName, func(t *testing.T) {
			envFlagGetter, ok := flag.(interface {
				GetEnvVars() []string
			})
			require.True(t, ok)
			envFlags := envFlagGetter.GetEnvVars()
			require.Equal(t, 1, len(envFlags))

			expected := EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
			require.Equal(t, expected, envFlags[0])
		})
	}
}

func TestReportFlagNames(t *testing.T) {
	require.Equal(t, "xml-report", XMLReport.Name)
	require.Equal(t, []string{"OP_HARNESS_XML_REPORT"}, XMLReport.EnvVars)
	require.Equal(t, "xml-path", XMLPath.Name)
	require.Equal(t, "xml-testsuite-name", XMLTestsuiteName.Name)
}

func TestCheckRequired(t *testing.T) {
	run := func(args ...string) error {
		app := &cli.App{
			Flags:  Flags,
			Action: CheckRequired,
		}
		return app.Run(append([]string{"app"}, args...))
	}

	require.Error(t, run())
	require.NoError(t, run("checks/"))
	require.NoError(t, run("--config", "harness.yaml"))
}
