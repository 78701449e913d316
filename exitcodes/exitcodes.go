// Package exitcodes defines the standard exit codes used by op-harness.
package exitcodes

// Exit code constants used by op-harness:
//
// * Success (0): every executed test passed (or was skipped)
// * TestFailure (1): one or more tests failed or errored
// * RuntimeErr (2): configuration errors, malformed arguments, report-write
//   failures, panics in the harness itself
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
