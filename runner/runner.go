// Package runner executes discovered test units under the fixed lifecycle:
// optional suite setup (before_all), per test an optional setup (before),
// the test body and an optional teardown (after), then the optional suite
// teardown (after_all). Failures are isolated at every stage; nothing a
// test or hook raises can terminate the run.
package runner

import (
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/traefik/yaegi/interp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ethereum-optimism/infra/op-harness/loader"
	"github.com/ethereum-optimism/infra/op-harness/testkit"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Hook symbol names looked up on each unit.
const (
	hookBeforeAll = "before_all"
	hookBefore    = "before"
	hookAfter     = "after"
	hookAfterAll  = "after_all"
)

var skipFnType = reflect.TypeOf(testkit.SkipFn(nil))

// Config holds configuration for creating a Runner.
type Config struct {
	Log    log.Logger
	Tracer trace.Tracer
}

// Runner sequences the lifecycle over a list of units.
type Runner struct {
	log    log.Logger
	tracer trace.Tracer
}

// New creates a Runner.
func New(cfg Config) *Runner {
	if cfg.Log == nil {
		cfg.Log = log.New()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer("op-harness")
	}
	return &Runner{log: cfg.Log, tracer: cfg.Tracer}
}

// Run executes every unit in order. With a non-empty testName only that
// symbol runs in each unit; otherwise all qualifying symbols run in
// enumeration order. The returned result set carries the run's total
// elapsed time.
func (r *Runner) Run(ctx context.Context, units []*loader.Unit, testName string) *types.ResultSet {
	m := NewResultManager()
	start := time.Now()
	for _, unit := range units {
		r.runSuite(ctx, unit, testName, m)
	}
	rs := m.ResultSet()
	rs.Duration = time.Since(start)
	return rs
}

// runSuite drives one unit: suite setup, tests, suite teardown. A skip
// signal from before_all aborts the whole suite; any other setup failure is
// recorded as a helper error and the tests still run.
func (r *Runner) runSuite(ctx context.Context, unit *loader.Unit, testName string, m *ResultManager) {
	ctx, span := r.tracer.Start(ctx, "suite "+unit.Location())
	defer span.End()

	if skipped := r.runBeforeAll(unit, m); skipped {
		return
	}

	if testName != "" {
		r.runTest(ctx, unit, testName, m)
	} else {
		for _, symbol := range unit.TestSymbols() {
			r.runTest(ctx, unit, symbol, m)
		}
	}

	r.runAfterAll(unit, m)
}

// runTest executes one test symbol with its per-test hooks and records
// exactly one outcome for it (plus a separate helper-error outcome when the
// after hook fails). Non-callable symbols that match the naming convention
// by accident are ignored without an outcome.
func (r *Runner) runTest(ctx context.Context, unit *loader.Unit, symbol string, m *ResultManager) {
	name := types.QualifiedName(unit.Location(), symbol)

	v, ok := unit.Lookup(symbol)
	if !ok {
		r.log.Warn("Test symbol could not be resolved", "test", name)
		return
	}
	if v.Kind() != reflect.Func || v.Type().NumIn() != 0 {
		return
	}

	_, span := r.tracer.Start(ctx, "test "+name)
	defer span.End()
	r.log.Debug("Running test", "test", name)

	skipMarked := v.Type() == skipFnType
	start := time.Now()

	if !skipMarked {
		if before, ok := hookFn(unit, hookBefore); ok {
			if p := safeCall(before); p != nil {
				// Setup failure: recorded as a distinct helper error, the
				// body is not attempted, teardown still runs.
				m.Record(panicOutcome(name, types.StatusError, p, time.Since(start)))
				r.log.Debug("Per-test setup failed", "test", name)
				r.runAfter(unit, name, m)
				return
			}
		}
	}

	p := safeCall(v)
	elapsed := time.Since(start)

	switch {
	case p == nil:
		m.Record(types.Outcome{Name: name, Status: types.StatusPass, Duration: elapsed})
		r.log.Debug("ok", "test", name)
	case isSkip(p):
		msg := skipMessage(p)
		m.Record(types.Outcome{Name: name, Status: types.StatusSkip, Duration: elapsed, Message: msg, Detail: msg})
		r.log.Debug("skip", "test", name)
	case isAssertion(p):
		m.Record(panicOutcome(name, types.StatusFail, p, elapsed))
		r.log.Debug("fail", "test", name)
	default:
		m.Record(panicOutcome(name, types.StatusError, p, elapsed))
		r.log.Debug("error", "test", name)
	}

	r.runAfter(unit, name, m)
}

// runBeforeAll executes the suite setup hook. Returns true when the suite
// must be skipped entirely.
func (r *Runner) runBeforeAll(unit *loader.Unit, m *ResultManager) bool {
	fn, ok := hookFn(unit, hookBeforeAll)
	if !ok {
		return false
	}

	start := time.Now()
	p := safeCall(fn)
	if p == nil {
		return false
	}
	if isSkip(p) {
		msg := skipMessage(p)
		m.Record(types.Outcome{Name: unit.Location(), Status: types.StatusSkip, Duration: time.Since(start), Message: msg, Detail: msg})
		r.log.Debug("Suite skipped", "suite", unit.Location())
		return true
	}
	m.Record(panicOutcome(unit.Location(), types.StatusError, p, time.Since(start)))
	r.log.Debug("Suite setup failed", "suite", unit.Location())
	return false
}

// runAfterAll executes the suite teardown hook; failures become helper
// errors keyed at the suite location.
func (r *Runner) runAfterAll(unit *loader.Unit, m *ResultManager) {
	fn, ok := hookFn(unit, hookAfterAll)
	if !ok {
		return
	}
	start := time.Now()
	if p := safeCall(fn); p != nil {
		m.Record(panicOutcome(unit.Location(), types.StatusError, p, time.Since(start)))
		r.log.Debug("Suite teardown failed", "suite", unit.Location())
	}
}

// runAfter executes the per-test teardown hook; failures become helper
// errors keyed at the qualified test name without touching the test's own
// outcome.
func (r *Runner) runAfter(unit *loader.Unit, name string, m *ResultManager) {
	fn, ok := hookFn(unit, hookAfter)
	if !ok {
		return
	}
	start := time.Now()
	if p := safeCall(fn); p != nil {
		m.Record(panicOutcome(name, types.StatusError, p, time.Since(start)))
		r.log.Debug("Per-test teardown failed", "test", name)
	}
}

// hookFn resolves an optional hook symbol. Anything that is not a no-arg
// function is treated as absent.
func hookFn(unit *loader.Unit, name string) (reflect.Value, bool) {
	v, ok := unit.Lookup(name)
	if !ok || v.Kind() != reflect.Func || v.Type().NumIn() != 0 {
		return reflect.Value{}, false
	}
	return v, true
}

// panicInfo captures what a test or hook raised, with the stack trace that
// goes into the outcome detail.
type panicInfo struct {
	value any
	stack []byte
}

// safeCall invokes fn, converting a panic into a panicInfo. Panics from
// interpreted code arrive wrapped in interp.Panic and are unwrapped to the
// original value with the interpreter's stack.
func safeCall(fn reflect.Value) (p *panicInfo) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if ip, ok := recovered.(interp.Panic); ok {
				p = &panicInfo{value: ip.Value, stack: ip.Stack}
			} else {
				p = &panicInfo{value: recovered, stack: debug.Stack()}
			}
		}
	}()
	fn.Call(nil)
	return nil
}

func isSkip(p *panicInfo) bool {
	_, ok := p.value.(*testkit.SkipError)
	return ok
}

func isAssertion(p *panicInfo) bool {
	_, ok := p.value.(*testkit.AssertionError)
	return ok
}

func skipMessage(p *panicInfo) string {
	sk := p.value.(*testkit.SkipError)
	return sk.Error() + "\n"
}

func panicOutcome(name string, status types.Status, p *panicInfo, elapsed time.Duration) types.Outcome {
	msg := fmt.Sprint(p.value)
	return types.Outcome{
		Name:     name,
		Status:   status,
		Duration: elapsed,
		Message:  msg,
		Detail:   msg + "\n" + string(p.stack),
	}
}
