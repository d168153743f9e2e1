package report

import (
	"fmt"
	"io"

	"nl2sqleval/internal/metrics"
)

// Render prints the per-pair report lines and the batch summary, in the
// same shape as the original terminal report: question, highlighted SQL
// pair, validity and result-match status per entry, then overall counts.
func Render(w io.Writer, entries []Entry, state metrics.State) {
	for _, entry := range entries {
		if entry.Question != "" {
			fmt.Fprintf(w, "Question: %s\n", entry.Question)
		}
		fmt.Fprintf(w, "Expected SQL: %s\n", entry.ExpectedHighlighted)
		fmt.Fprintf(w, "Generated SQL: %s\n", entry.GeneratedHighlighted)
		fmt.Fprintf(w, "Generated outcome: %s\n", entry.GeneratedOutcome)
		if entry.Compared {
			fmt.Fprintf(w, "Result match: %s (overlap %.2f)\n", entry.Classification, entry.OverlapRatio)
		} else {
			fmt.Fprintf(w, "Result match: not compared\n")
		}
		fmt.Fprintln(w, "------")
	}

	fmt.Fprintf(w, "Pairs evaluated: %d\n", state.Pairs)
	fmt.Fprintf(w, "Generated queries executed successfully: %d/%d\n", state.Generated.Success, state.Pairs)
	fmt.Fprintf(w, "Syntax errors (generated): %d\n", state.Generated.SyntaxErr)
	fmt.Fprintf(w, "Runtime errors (generated): %d\n", state.Generated.RuntimeErr)
	compared := state.Exact + state.Partial + state.NoMatch + state.Incomparable
	if compared > 0 {
		fmt.Fprintf(w, "Exact result matches: %d/%d\n", state.Exact, compared)
		fmt.Fprintf(w, "Partial result matches: %d/%d\n", state.Partial, compared)
		fmt.Fprintf(w, "No result overlap: %d/%d\n", state.NoMatch, compared)
		fmt.Fprintf(w, "Incomparable results: %d/%d\n", state.Incomparable, compared)
	}
	if state.NotCompared > 0 {
		fmt.Fprintf(w, "Pairs without comparison: %d\n", state.NotCompared)
	}
}
