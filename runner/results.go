package runner

import (
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// ResultManager accumulates outcomes for a run. Record is the only mutator;
// outcomes are never edited or removed once recorded, which keeps the
// summary counts and the testcase list in lockstep.
type ResultManager struct {
	rs types.ResultSet
}

// NewResultManager creates an empty ResultManager.
func NewResultManager() *ResultManager {
	return &ResultManager{}
}

// Record appends one outcome and bumps its status counter.
func (m *ResultManager) Record(o types.Outcome) {
	switch o.Status {
	case types.StatusPass:
		m.rs.Summary.Passed++
	case types.StatusFail:
		m.rs.Summary.Failed++
	case types.StatusError:
		m.rs.Summary.Errored++
	case types.StatusSkip:
		m.rs.Summary.Skipped++
	}
	m.rs.Testcases = append(m.rs.Testcases, o)
}

// Merge folds another result set into this one: counts are summed, testcase
// lists concatenated, elapsed times added. Used for deferred reporting when
// several discovery roots run under one final report.
func (m *ResultManager) Merge(other *types.ResultSet) {
	if other == nil {
		return
	}
	m.rs.Summary.Passed += other.Summary.Passed
	m.rs.Summary.Failed += other.Summary.Failed
	m.rs.Summary.Errored += other.Summary.Errored
	m.rs.Summary.Skipped += other.Summary.Skipped
	m.rs.Testcases = append(m.rs.Testcases, other.Testcases...)
	m.rs.Duration += other.Duration
}

// ResultSet returns a snapshot of the accumulated results.
func (m *ResultManager) ResultSet() *types.ResultSet {
	snapshot := m.rs
	snapshot.Testcases = make([]types.Outcome, len(m.rs.Testcases))
	copy(snapshot.Testcases, m.rs.Testcases)
	return &snapshot
}
