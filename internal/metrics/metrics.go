// Package metrics accumulates execution and comparison counters across a
// batch of evaluations.
package metrics

import (
	"sync"

	"nl2sqleval/internal/compare"
	"nl2sqleval/internal/result"
)

// SideCounts tallies execution outcomes for one side of the pairs.
type SideCounts struct {
	Success    int64 `json:"success"`
	SyntaxErr  int64 `json:"syntax_error"`
	RuntimeErr int64 `json:"runtime_error"`
}

func (s *SideCounts) observe(kind result.Kind) {
	switch kind {
	case result.Success:
		s.Success++
	case result.SyntaxErr:
		s.SyntaxErr++
	case result.RuntimeErr:
		s.RuntimeErr++
	}
}

// State is a point-in-time copy of the batch counters.
type State struct {
	Pairs        int64      `json:"pairs"`
	Expected     SideCounts `json:"expected"`
	Generated    SideCounts `json:"generated"`
	Exact        int64      `json:"exact"`
	Partial      int64      `json:"partial"`
	NoMatch      int64      `json:"no_match"`
	Incomparable int64      `json:"incomparable"`
	NotCompared  int64      `json:"not_compared"`
}

// Tracker is the process-wide accumulator. Counters are only ever
// incremented; Reset is the sole way back to zero, at batch boundaries.
// Safe for concurrent use by multiple evaluation workers.
type Tracker struct {
	mu    sync.Mutex
	state State
}

// Observe records one evaluation: exactly one bucket per outcome kind per
// side, plus one comparison bucket (NotCompared when cmp is nil).
func (t *Tracker) Observe(expected, generated result.Kind, cmp *compare.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Pairs++
	t.state.Expected.observe(expected)
	t.state.Generated.observe(generated)
	if cmp == nil {
		t.state.NotCompared++
		return
	}
	switch cmp.Classification {
	case compare.Exact:
		t.state.Exact++
	case compare.Partial:
		t.state.Partial++
	case compare.NoMatch:
		t.state.NoMatch++
	case compare.Incomparable:
		t.state.Incomparable++
	}
}

// Snapshot returns a read-only copy of the current counters.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reset zeroes all counters for a new batch.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = State{}
}
