// Package compare normalizes query results and determines the degree of
// equivalence between two result sets.
package compare

import (
	"sort"
	"strconv"
	"strings"
)

// Options controls normalization and comparison semantics.
type Options struct {
	IgnoreRowOrder    bool
	IgnoreColumnOrder bool
}

// DefaultOptions ignores both row and column order.
func DefaultOptions() Options {
	return Options{IgnoreRowOrder: true, IgnoreColumnOrder: true}
}

// Normalized is the canonical comparable form of a successful result set.
// Rows are kept in driver order; when row order is insensitive the
// comparator treats them as a multiset.
type Normalized struct {
	Columns []string
	Rows    [][]string
	Opts    Options
}

// Normalize derives the canonical form of (columns, rows) under opts.
// It is a pure function: identical inputs normalize identically, no row
// or column is dropped or duplicated, and normalizing an already
// normalized result is a no-op.
func Normalize(columns []string, rows [][]string, opts Options) Normalized {
	n := Normalized{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, 0, len(rows)),
		Opts:    opts,
	}
	perm := identityPerm(len(columns))
	if opts.IgnoreColumnOrder {
		perm = canonicalColumnPerm(columns)
		reordered := make([]string, len(columns))
		for i, src := range perm {
			reordered[i] = columns[src]
		}
		n.Columns = reordered
	}
	for _, row := range rows {
		projected := make([]string, len(row))
		for i, src := range perm {
			if src < len(row) {
				projected[i] = row[src]
			}
		}
		n.Rows = append(n.Rows, projected)
	}
	return n
}

// canonicalColumnPerm maps canonical position to source index: column
// names sorted ascending, duplicates keeping their original relative
// order so re-projection stays deterministic.
func canonicalColumnPerm(columns []string) []int {
	perm := identityPerm(len(columns))
	sort.SliceStable(perm, func(i, j int) bool {
		return columns[perm[i]] < columns[perm[j]]
	})
	return perm
}

func identityPerm(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// rowKey encodes a row injectively. Cells are raw driver text and may
// contain any byte, so each cell is length-prefixed instead of joined
// with a separator: distinct rows always yield distinct keys.
func rowKey(row []string) string {
	var b strings.Builder
	for _, cell := range row {
		b.WriteString(strconv.Itoa(len(cell)))
		b.WriteByte(':')
		b.WriteString(cell)
	}
	return b.String()
}

func countRows(rows [][]string) map[string]int {
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[rowKey(row)]++
	}
	return counts
}
