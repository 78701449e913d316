package types

import (
	"fmt"
	"time"
)

// Status represents the possible states of a test execution
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
	StatusSkip  Status = "skip"
)

// Outcome captures the result of one test or hook execution attempt.
// Hook failures (before_all, before, after, after_all) are recorded as
// additional Errored outcomes keyed by the suite location or the qualified
// test name they belong to.
type Outcome struct {
	// Name is the qualified test name: unit location + "." + symbol, or the
	// bare unit location for suite-level outcomes.
	Name     string
	Status   Status
	Duration time.Duration
	// Message is the short diagnostic for non-passed outcomes (stringified
	// error, or "SkipTest: <reason>").
	Message string
	// Detail carries the full diagnostic: panic value plus stack trace for
	// failures and errors, the skip message for skips.
	Detail string
}

// QualifiedName builds the canonical "<location>.<symbol>" test name.
func QualifiedName(location, symbol string) string {
	return location + "." + symbol
}

// Summary tracks outcome counts per status.
type Summary struct {
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

// Total returns the number of recorded outcomes.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Errored + s.Skipped
}

// Status folds the counts into an overall run status. Failures and errors
// dominate; a run where everything was skipped reports skip.
func (s Summary) Status() Status {
	switch {
	case s.Failed > 0 || s.Errored > 0:
		return StatusFail
	case s.Passed == 0 && s.Skipped > 0:
		return StatusSkip
	default:
		return StatusPass
	}
}

// String renders the one-line summary used by the console report.
func (s Summary) String() string {
	return fmt.Sprintf("%d Failed, %d Errored, %d Passed, %d Skipped",
		s.Failed, s.Errored, s.Passed, s.Skipped)
}

// ResultSet is the aggregate of one run (or several merged runs): a summary
// count per status plus the ordered list of outcomes. Outcomes are never
// removed or edited after recording, so sum(Summary) == len(Testcases) holds
// at all times.
type ResultSet struct {
	Summary   Summary
	Testcases []Outcome
	Duration  time.Duration
}

// FormatSeconds renders a duration as fractional seconds for reports.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.5f", d.Seconds())
}
