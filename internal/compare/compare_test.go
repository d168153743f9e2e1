package compare

import (
	"reflect"
	"testing"
)

func TestCompareIdenticalResults(t *testing.T) {
	cols := []string{"a", "b"}
	rows := [][]string{{"1", "x"}, {"2", "y"}, {"2", "y"}}
	res := Compare(Normalize(cols, rows, DefaultOptions()), Normalize(cols, rows, DefaultOptions()))
	if res.Classification != Exact {
		t.Fatalf("expected exact, got %s", res.Classification)
	}
	if res.OverlapRatio != 1.0 {
		t.Fatalf("expected ratio 1.0, got %f", res.OverlapRatio)
	}
	if len(res.MissingRows) != 0 || len(res.ExtraRows) != 0 {
		t.Fatalf("expected no surplus rows: %+v", res)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	cols := []string{"b", "a"}
	rows := [][]string{{"2", "1"}, {"4", "3"}}
	once := Normalize(cols, rows, DefaultOptions())
	twice := Normalize(once.Columns, once.Rows, DefaultOptions())
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalization not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestRowOrderInsensitivity(t *testing.T) {
	cols := []string{"a"}
	rows := [][]string{{"1"}, {"2"}, {"3"}}
	permuted := [][]string{{"3"}, {"1"}, {"2"}}

	opts := DefaultOptions()
	res := Compare(Normalize(cols, rows, opts), Normalize(cols, permuted, opts))
	if res.Classification != Exact {
		t.Fatalf("expected exact under ignore_row_order, got %s", res.Classification)
	}

	ordered := Options{IgnoreRowOrder: false, IgnoreColumnOrder: true}
	res = Compare(Normalize(cols, rows, ordered), Normalize(cols, permuted, ordered))
	if res.Classification == Exact {
		t.Fatalf("permuted rows must not be exact in ordered mode")
	}
}

func TestMultiplicitySensitivity(t *testing.T) {
	cols := []string{"a"}
	expected := [][]string{{"1"}}
	generated := [][]string{{"1"}, {"1"}}
	res := Compare(Normalize(cols, expected, DefaultOptions()), Normalize(cols, generated, DefaultOptions()))
	if res.Classification != Partial {
		t.Fatalf("expected partial for surplus duplicate, got %s", res.Classification)
	}
	if res.OverlapRatio != 1.0 {
		t.Fatalf("expected ratio 1.0, got %f", res.OverlapRatio)
	}
	if len(res.ExtraRows) != 1 || res.ExtraRows[0][0] != "1" {
		t.Fatalf("expected one extra row, got %+v", res.ExtraRows)
	}

	// The symmetric direction loses a duplicate instead.
	res = Compare(Normalize(cols, generated, DefaultOptions()), Normalize(cols, expected, DefaultOptions()))
	if res.Classification != Partial {
		t.Fatalf("expected partial for missing duplicate, got %s", res.Classification)
	}
	if res.OverlapRatio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %f", res.OverlapRatio)
	}
	if len(res.MissingRows) != 1 {
		t.Fatalf("expected one missing row, got %+v", res.MissingRows)
	}
}

func TestColumnOrderInsensitivity(t *testing.T) {
	expected := Normalize([]string{"a", "b"}, [][]string{{"1", "2"}}, DefaultOptions())
	generated := Normalize([]string{"b", "a"}, [][]string{{"2", "1"}}, DefaultOptions())
	res := Compare(expected, generated)
	if res.Classification != Exact {
		t.Fatalf("expected exact under ignore_column_order, got %s", res.Classification)
	}

	strict := Options{IgnoreRowOrder: true, IgnoreColumnOrder: false}
	res = Compare(
		Normalize([]string{"a", "b"}, [][]string{{"1", "2"}}, strict),
		Normalize([]string{"b", "a"}, [][]string{{"2", "1"}}, strict),
	)
	if res.Classification != Incomparable {
		t.Fatalf("expected incomparable with column order significant, got %s", res.Classification)
	}
}

func TestDisjointColumns(t *testing.T) {
	res := Compare(
		Normalize([]string{"a"}, [][]string{{"1"}}, DefaultOptions()),
		Normalize([]string{"x"}, [][]string{{"1"}}, DefaultOptions()),
	)
	if res.Classification != Incomparable {
		t.Fatalf("expected incomparable for disjoint columns, got %s", res.Classification)
	}
	if !res.ColumnMismatch {
		t.Fatalf("expected column mismatch flag")
	}
	if res.OverlapRatio != 0 {
		t.Fatalf("expected zero ratio, got %f", res.OverlapRatio)
	}
}

func TestEmptyResults(t *testing.T) {
	cols := []string{"a"}
	empty := Normalize(cols, nil, DefaultOptions())
	nonEmpty := Normalize(cols, [][]string{{"1"}}, DefaultOptions())

	res := Compare(empty, empty)
	if res.Classification != Exact || res.OverlapRatio != 1.0 {
		t.Fatalf("empty vs empty should be exact with ratio 1.0, got %+v", res)
	}

	res = Compare(empty, nonEmpty)
	if res.Classification != NoMatch {
		t.Fatalf("empty expected vs non-empty generated should be no_match, got %s", res.Classification)
	}
	if len(res.ExtraRows) != 1 {
		t.Fatalf("expected the surplus generated row reported, got %+v", res.ExtraRows)
	}

	res = Compare(nonEmpty, empty)
	if res.Classification != NoMatch {
		t.Fatalf("non-empty expected vs empty generated should be no_match, got %s", res.Classification)
	}
	if len(res.MissingRows) != 1 {
		t.Fatalf("expected the missing row reported, got %+v", res.MissingRows)
	}
}

func TestPartialOverlap(t *testing.T) {
	cols := []string{"a"}
	expected := [][]string{{"1"}, {"2"}, {"3"}, {"4"}}
	generated := [][]string{{"3"}, {"4"}, {"5"}}
	res := Compare(Normalize(cols, expected, DefaultOptions()), Normalize(cols, generated, DefaultOptions()))
	if res.Classification != Partial {
		t.Fatalf("expected partial, got %s", res.Classification)
	}
	if res.OverlapRatio != 0.5 {
		t.Fatalf("expected ratio 0.5, got %f", res.OverlapRatio)
	}
	if !reflect.DeepEqual(res.MissingRows, [][]string{{"1"}, {"2"}}) {
		t.Fatalf("unexpected missing rows: %+v", res.MissingRows)
	}
	if !reflect.DeepEqual(res.ExtraRows, [][]string{{"5"}}) {
		t.Fatalf("unexpected extra rows: %+v", res.ExtraRows)
	}
}

func TestNoMatch(t *testing.T) {
	cols := []string{"a"}
	res := Compare(
		Normalize(cols, [][]string{{"1"}, {"2"}}, DefaultOptions()),
		Normalize(cols, [][]string{{"8"}, {"9"}}, DefaultOptions()),
	)
	if res.Classification != NoMatch {
		t.Fatalf("expected no_match, got %s", res.Classification)
	}
	if res.OverlapRatio != 0 {
		t.Fatalf("expected zero ratio, got %f", res.OverlapRatio)
	}
}

func TestNullsCompareExactly(t *testing.T) {
	cols := []string{"a", "b"}
	withNull := [][]string{{"1", "NULL"}}
	withValue := [][]string{{"1", ""}}
	res := Compare(Normalize(cols, withNull, DefaultOptions()), Normalize(cols, withValue, DefaultOptions()))
	if res.Classification != NoMatch {
		t.Fatalf("NULL and empty string must not match, got %s", res.Classification)
	}
	res = Compare(Normalize(cols, withNull, DefaultOptions()), Normalize(cols, withNull, DefaultOptions()))
	if res.Classification != Exact {
		t.Fatalf("identical NULL rows should match, got %s", res.Classification)
	}
}

func TestControlBytesInCellsStayDistinct(t *testing.T) {
	cols := []string{"a", "b"}
	expected := [][]string{{"x\x1f", "y"}}
	generated := [][]string{{"x", "\x1fy"}}

	res := Compare(Normalize(cols, expected, DefaultOptions()), Normalize(cols, generated, DefaultOptions()))
	if res.Classification != NoMatch {
		t.Fatalf("rows differing only in cell boundaries must not match, got %s", res.Classification)
	}
	if len(res.MissingRows) != 1 || len(res.ExtraRows) != 1 {
		t.Fatalf("expected both rows reported as surplus: %+v", res)
	}

	ordered := Options{IgnoreRowOrder: false, IgnoreColumnOrder: true}
	res = Compare(Normalize(cols, expected, ordered), Normalize(cols, generated, ordered))
	if res.Classification != NoMatch {
		t.Fatalf("ordered mode must keep such rows distinct, got %s", res.Classification)
	}
}

func TestNormalizeReprojectsOntoSortedColumns(t *testing.T) {
	n := Normalize([]string{"c", "a", "b"}, [][]string{{"3", "1", "2"}}, DefaultOptions())
	if !reflect.DeepEqual(n.Columns, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected canonical columns: %v", n.Columns)
	}
	if !reflect.DeepEqual(n.Rows, [][]string{{"1", "2", "3"}}) {
		t.Fatalf("unexpected re-projected row: %v", n.Rows)
	}
}

func TestNormalizePreservesRowCount(t *testing.T) {
	rows := [][]string{{"1"}, {"1"}, {"2"}}
	n := Normalize([]string{"a"}, rows, DefaultOptions())
	if len(n.Rows) != len(rows) {
		t.Fatalf("normalization changed row count: %d != %d", len(n.Rows), len(rows))
	}
}
