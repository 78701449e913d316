// Package testkit is the library test units import to signal outcomes to the
// harness. Assertions panic with an *AssertionError, which the lifecycle
// runner classifies as a failure; SkipNow panics with a *SkipError, which is
// classified as a skip (or aborts the whole suite when raised from
// before_all). Any other panic is classified as an error.
//
// The package exports its own symbol table so the loader can make it
// available inside the yaegi interpreter.
package testkit

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
)

// SkipError is the control signal that aborts a test body (or a suite when
// raised from before_all) and records a skip instead of an error.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "SkipTest: " + e.Reason
}

// AssertionError is the expected test-failure signal.
type AssertionError struct {
	Msg string
}

func (e *AssertionError) Error() string {
	return e.Msg
}

// SkipFn marks a test as skipped at declaration time. The runner recognizes
// the type before invoking per-test setup, so `before` never runs for a
// skip-marked test:
//
//	var test_flaky = testkit.Skip("flaky on CI")
type SkipFn func()

// Skip returns a skip-marked test that raises the skip signal when run.
func Skip(reason string) SkipFn {
	return func() {
		panic(&SkipError{Reason: reason})
	}
}

// SkipNow aborts the current test (or suite, from before_all) with a skip.
func SkipNow(reason string) {
	panic(&SkipError{Reason: reason})
}

// Assert fails the current test when cond is false.
func Assert(cond bool, msg string) {
	if !cond {
		panic(&AssertionError{Msg: msg})
	}
}

// Assertf fails the current test when cond is false, with a formatted message.
func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(&AssertionError{Msg: fmt.Sprintf(format, args...)})
	}
}

// Equal fails the current test when want and got are not deeply equal.
func Equal(want, got any) {
	if !reflect.DeepEqual(want, got) {
		panic(&AssertionError{Msg: fmt.Sprintf("not equal: want %v, got %v", want, got)})
	}
}

// Fail fails the current test unconditionally.
func Fail(msg string) {
	panic(&AssertionError{Msg: msg})
}

// Symbols exposes the testkit API to interpreted units.
var Symbols = interp.Exports{
	"github.com/ethereum-optimism/infra/op-harness/testkit/testkit": {
		"Skip":    reflect.ValueOf(Skip),
		"SkipNow": reflect.ValueOf(SkipNow),
		"Assert":  reflect.ValueOf(Assert),
		"Assertf": reflect.ValueOf(Assertf),
		"Equal":   reflect.ValueOf(Equal),
		"Fail":    reflect.ValueOf(Fail),

		"SkipFn":         reflect.ValueOf((*SkipFn)(nil)),
		"SkipError":      reflect.ValueOf((*SkipError)(nil)),
		"AssertionError": reflect.ValueOf((*AssertionError)(nil)),
	},
}
