package report

import "strings"

const (
	ansiRed   = "\x1b[91m"
	ansiGreen = "\x1b[92m"
	ansiReset = "\x1b[0m"
)

// HighlightDiff aligns two SQL strings token-wise and returns both with
// ANSI highlighting: tokens only in expected are red, tokens only in
// generated are green, and each side shows a colored "_" placeholder
// where the other side has an unmatched token.
func HighlightDiff(expected, generated string) (string, string) {
	expTokens := strings.Fields(expected)
	genTokens := strings.Fields(generated)

	var expOut, genOut []string
	for _, op := range diffOps(expTokens, genTokens) {
		switch op.kind {
		case opEqual:
			expOut = append(expOut, op.token)
			genOut = append(genOut, op.token)
		case opDelete:
			expOut = append(expOut, ansiRed+op.token+ansiReset)
			genOut = append(genOut, ansiGreen+"_"+ansiReset)
		case opInsert:
			genOut = append(genOut, ansiGreen+op.token+ansiReset)
			expOut = append(expOut, ansiRed+"_"+ansiReset)
		}
	}
	return strings.Join(expOut, " "), strings.Join(genOut, " ")
}

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

type diffOp struct {
	kind  opKind
	token string
}

// diffOps computes an edit script between two token slices using a
// longest-common-subsequence table.
func diffOps(a, b []string) []diffOp {
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []diffOp
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, diffOp{opEqual, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, diffOp{opDelete, a[i]})
			i++
		default:
			ops = append(ops, diffOp{opInsert, b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, diffOp{opDelete, a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, diffOp{opInsert, b[j]})
	}
	return ops
}
