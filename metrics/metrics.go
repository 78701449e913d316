package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

const (
	MetricsNamespace = "harness"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	testcasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "testcases_total",
		Help:      "Count of executed testcases",
	}, []string{
		"suite",
		"run_id",
		"name",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of harness runs",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	runTestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_total",
		Help:      "Total number of tests in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runTestPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_passed",
		Help:      "Number of passed tests in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runTestFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_failed",
		Help:      "Number of failed tests in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runTestErrored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_errored",
		Help:      "Number of errored tests in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runTestSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_test_skipped",
		Help:      "Number of skipped tests in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration",
		Help:      "Duration of harness runs",
	}, []string{
		"suite",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordTestcase(suite string, runID string, name string, status types.Status) {
	if Debug {
		log.Debug("metric inc",
			"m", "testcases_total",
			"suite", suite,
			"run_id", runID,
			"name", name,
			"result", status)
	}
	testcasesTotal.WithLabelValues(suite, runID, name, string(status)).Inc()
}

func RecordRun(suite string, runID string, rs *types.ResultSet) {
	runResults.WithLabelValues(suite, runID, string(rs.Summary.Status())).Set(1)
	runTestTotal.WithLabelValues(suite, runID).Add(float64(rs.Summary.Total()))
	runTestPassed.WithLabelValues(suite, runID).Add(float64(rs.Summary.Passed))
	runTestFailed.WithLabelValues(suite, runID).Add(float64(rs.Summary.Failed))
	runTestErrored.WithLabelValues(suite, runID).Add(float64(rs.Summary.Errored))
	runTestSkipped.WithLabelValues(suite, runID).Add(float64(rs.Summary.Skipped))
	runDuration.WithLabelValues(suite, runID).Set(rs.Duration.Seconds())

	for _, tc := range rs.Testcases {
		RecordTestcase(suite, runID, tc.Name, tc.Status)
	}
}
