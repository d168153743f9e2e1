package compare

// Classification describes how closely two result sets agree.
type Classification int

const (
	// Exact means every expected row is present with matching
	// multiplicity and nothing extra was returned.
	Exact Classification = iota
	// Partial means some but not all rows overlap, or the generated set
	// carries surplus rows beyond an otherwise full match.
	Partial
	// NoMatch means no row overlaps at all.
	NoMatch
	// Incomparable means the column identities differ, so row comparison
	// is meaningless.
	Incomparable
)

// String returns the snake_case name used in reports and metrics.
func (c Classification) String() string {
	switch c {
	case Exact:
		return "exact"
	case Partial:
		return "partial"
	case NoMatch:
		return "no_match"
	case Incomparable:
		return "incomparable"
	default:
		return "unknown"
	}
}

// Result is the outcome of comparing two normalized result sets.
// MissingRows holds rows whose multiplicity in expected exceeds their
// multiplicity in generated, repeated by the excess; ExtraRows is the
// symmetric surplus on the generated side.
type Result struct {
	Classification Classification
	OverlapRatio   float64
	MissingRows    [][]string
	ExtraRows      [][]string
	ColumnMismatch bool
}

// Compare determines the degree of equivalence between an expected and a
// generated result set. Row identity is value-wise tuple equality with no
// floating-point tolerance; cells are the driver's textual values, so the
// comparison is exact and type-strict.
func Compare(expected, generated Normalized) Result {
	if !columnsMatch(expected.Columns, generated.Columns) {
		return Result{Classification: Incomparable, ColumnMismatch: true}
	}
	if expected.Opts.IgnoreRowOrder {
		return compareMultiset(expected, generated)
	}
	return compareOrdered(expected, generated)
}

func compareMultiset(expected, generated Normalized) Result {
	expCounts := countRows(expected.Rows)
	genCounts := countRows(generated.Rows)

	matched := 0
	for key, n := range expCounts {
		if m := genCounts[key]; m < n {
			matched += m
		} else {
			matched += n
		}
	}

	res := Result{
		MissingRows: surplus(expected.Rows, expCounts, genCounts),
		ExtraRows:   surplus(generated.Rows, genCounts, expCounts),
	}
	classify(&res, matched, len(expected.Rows), len(generated.Rows))
	return res
}

// compareOrdered matches rows positionally: a row counts as matched only
// when the same tuple appears at the same index on both sides.
func compareOrdered(expected, generated Normalized) Result {
	matched := 0
	var missing, extra [][]string
	for i, row := range expected.Rows {
		if i < len(generated.Rows) && rowKey(row) == rowKey(generated.Rows[i]) {
			matched++
			continue
		}
		missing = append(missing, row)
	}
	for i, row := range generated.Rows {
		if i < len(expected.Rows) && rowKey(row) == rowKey(expected.Rows[i]) {
			continue
		}
		extra = append(extra, row)
	}
	res := Result{MissingRows: missing, ExtraRows: extra}
	classify(&res, matched, len(expected.Rows), len(generated.Rows))
	return res
}

func classify(res *Result, matched, expectedTotal, generatedTotal int) {
	if expectedTotal == 0 {
		// Zero expected rows: exact only when generated is also empty,
		// avoiding a division-by-zero bias toward false positives.
		if generatedTotal == 0 {
			res.OverlapRatio = 1.0
			res.Classification = Exact
			return
		}
		res.Classification = NoMatch
		return
	}
	res.OverlapRatio = float64(matched) / float64(expectedTotal)
	switch {
	case res.OverlapRatio == 1.0 && len(res.ExtraRows) == 0:
		res.Classification = Exact
	case res.OverlapRatio == 0.0:
		res.Classification = NoMatch
	default:
		res.Classification = Partial
	}
}

// surplus returns rows of have whose multiplicity exceeds their count in
// other, repeated by the excess. Iterating have in order keeps the output
// deterministic.
func surplus(have [][]string, haveCounts, otherCounts map[string]int) [][]string {
	remaining := make(map[string]int, len(haveCounts))
	for key, n := range haveCounts {
		if excess := n - otherCounts[key]; excess > 0 {
			remaining[key] = excess
		}
	}
	var out [][]string
	for _, row := range have {
		key := rowKey(row)
		if remaining[key] > 0 {
			remaining[key]--
			out = append(out, row)
		}
	}
	return out
}

// columnsMatch requires column-name equality; Normalize already sorted
// the names when column order is insensitive, so positional comparison
// covers both modes.
func columnsMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
