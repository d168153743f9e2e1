// Package eval orchestrates the evaluation of query pairs: syntax
// validation, execution of both sides, result comparison and metrics.
package eval

import (
	"context"

	"nl2sqleval/internal/compare"
	"nl2sqleval/internal/metrics"
	"nl2sqleval/internal/result"

	"github.com/pkg/errors"
)

// QueryRunner executes one read-only SQL statement and classifies the
// outcome. The error return is reserved for infrastructure failures.
type QueryRunner interface {
	Execute(ctx context.Context, sqlText string) (result.Outcome, error)
}

// SyntaxChecker reports whether a statement is valid, by parsing and
// optionally by preparing it on the target engine.
type SyntaxChecker interface {
	Validate(ctx context.Context, sql string) error
}

// Options gates the optional evaluation stages.
type Options struct {
	IgnoreRowOrder    bool
	IgnoreColumnOrder bool
	ValidateSyntax    bool
	CompareResults    bool
}

// Record is the per-pair evaluation outcome. Comparison is nil whenever
// either execution did not succeed or result comparison is gated off.
type Record struct {
	ID             string
	Question       string
	ExpectedSQL    string
	GeneratedSQL   string
	ExpectedValid  bool
	GeneratedValid bool
	Expected       result.Outcome
	Generated      result.Outcome
	Comparison     *compare.Result
}

// Evaluator drives one evaluation per query pair and feeds every outcome
// into the shared metrics tracker.
type Evaluator struct {
	Runner  QueryRunner
	Checker SyntaxChecker
	Opts    Options
	Tracker *metrics.Tracker
}

// Evaluate runs one pair to completion. Query-caused failures land in the
// returned Record; only infrastructure failures (an unusable database
// handle, cancellation) are returned as errors, in which case no record
// is produced and nothing is tracked.
func (e *Evaluator) Evaluate(ctx context.Context, pair result.QueryPair) (Record, error) {
	rec := Record{
		ID:           pair.ID,
		Question:     pair.Question,
		ExpectedSQL:  pair.Expected,
		GeneratedSQL: pair.Generated,
	}

	if e.Opts.ValidateSyntax && e.Checker != nil {
		rec.ExpectedValid = e.Checker.Validate(ctx, pair.Expected) == nil
		rec.GeneratedValid = e.Checker.Validate(ctx, pair.Generated) == nil
	}

	var err error
	rec.Expected, err = e.Runner.Execute(ctx, pair.Expected)
	if err != nil {
		return Record{}, errors.Wrapf(err, "pair %s: expected query", pair.ID)
	}
	rec.Generated, err = e.Runner.Execute(ctx, pair.Generated)
	if err != nil {
		return Record{}, errors.Wrapf(err, "pair %s: generated query", pair.ID)
	}

	if e.Opts.CompareResults && rec.Expected.OK() && rec.Generated.OK() {
		opts := compare.Options{
			IgnoreRowOrder:    e.Opts.IgnoreRowOrder,
			IgnoreColumnOrder: e.Opts.IgnoreColumnOrder,
		}
		cmp := compare.Compare(
			compare.Normalize(rec.Expected.Columns, rec.Expected.Rows, opts),
			compare.Normalize(rec.Generated.Columns, rec.Generated.Rows, opts),
		)
		rec.Comparison = &cmp
	}

	if e.Tracker != nil {
		e.Tracker.Observe(rec.Expected.Kind, rec.Generated.Kind, rec.Comparison)
	}
	return rec, nil
}

// EvaluateAll evaluates pairs sequentially over a single connection and
// returns one record per pair. The first infrastructure failure aborts
// the batch.
func (e *Evaluator) EvaluateAll(ctx context.Context, pairs []result.QueryPair) ([]Record, error) {
	records := make([]Record, 0, len(pairs))
	for _, pair := range pairs {
		rec, err := e.Evaluate(ctx, pair)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
