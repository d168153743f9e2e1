// Package result holds the data model shared by execution and comparison:
// query pairs and the closed execution-outcome variant.
package result

// QueryPair is one expected/generated SQL pair to evaluate.
// It is immutable once constructed.
type QueryPair struct {
	ID        string
	Question  string
	Expected  string
	Generated string
}

// Kind classifies how a single query execution ended.
type Kind int

const (
	// Success means the query executed and returned a result set.
	Success Kind = iota
	// SyntaxErr means the query could not be parsed or prepared.
	SyntaxErr
	// RuntimeErr means the query prepared but failed during execution,
	// e.g. a missing table, a type error or a constraint violation.
	RuntimeErr
)

// String returns the snake_case name used in reports and metrics.
func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case SyntaxErr:
		return "syntax_error"
	case RuntimeErr:
		return "runtime_error"
	default:
		return "unknown"
	}
}

// NullValue is the cell sentinel for SQL NULL. Cells are the driver's
// textual values; a row containing the literal string "NULL" is
// indistinguishable from one containing SQL NULL.
const NullValue = "NULL"

// Outcome is the tagged result of executing one SQL statement.
// Columns and Rows are populated only when Kind is Success and preserve
// the driver-reported order. Message carries the verbatim server error
// text for the failure kinds. An Outcome is never mutated after creation.
type Outcome struct {
	Kind      Kind
	Columns   []string
	Rows      [][]string
	Message   string
	Truncated bool
}

// SuccessOutcome builds a Success outcome from scanned columns and rows.
func SuccessOutcome(columns []string, rows [][]string) Outcome {
	return Outcome{Kind: Success, Columns: columns, Rows: rows}
}

// SyntaxErrOutcome builds a SyntaxErr outcome from an error message.
func SyntaxErrOutcome(message string) Outcome {
	return Outcome{Kind: SyntaxErr, Message: message}
}

// RuntimeErrOutcome builds a RuntimeErr outcome from an error message.
func RuntimeErrOutcome(message string) Outcome {
	return Outcome{Kind: RuntimeErr, Message: message}
}

// OK reports whether the execution produced a result set.
func (o Outcome) OK() bool {
	return o.Kind == Success
}
