// Package executor runs a single SQL statement against a database handle
// and classifies the outcome as success, syntax error or runtime error.
package executor

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"
	"strings"

	"nl2sqleval/internal/db"
	"nl2sqleval/internal/result"
	"nl2sqleval/internal/util"
	"nl2sqleval/internal/validator"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// syntaxErrorCodes lists MySQL error codes raised before a statement can
// be planned.
// 1064 is the generic SQL syntax error.
// 1065 is the empty-query error.
// 1149 is the legacy syntax error retained for older servers.
var syntaxErrorCodes = map[uint16]struct{}{
	1064: {},
	1065: {},
	1149: {},
}

// Executor executes read-only SQL statements on a database handle.
// The handle's ownership stays with the caller; the executor never opens
// or closes connections.
type Executor struct {
	DB     *db.DB
	Parser *validator.Validator

	// MaxRows caps result materialization; zero means unlimited.
	// Outcomes that hit the cap are marked truncated.
	MaxRows int
}

// New returns an executor bound to a database handle.
func New(exec *db.DB, maxRows int) *Executor {
	return &Executor{DB: exec, Parser: validator.New(), MaxRows: maxRows}
}

// Execute runs one SQL statement and classifies its outcome. Query-caused
// failures are returned as outcomes; the error return is reserved for
// infrastructure failures (invalid handle, lost connection, cancellation),
// the only class allowed to propagate past this boundary.
func (e *Executor) Execute(ctx context.Context, sqlText string) (result.Outcome, error) {
	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return result.SyntaxErrOutcome("empty statement"), nil
	}
	stmt, err := e.Parser.ParseOne(sqlText)
	if err != nil {
		return result.SyntaxErrOutcome(err.Error()), nil
	}
	if !validator.IsSelectClass(stmt) {
		return result.SyntaxErrOutcome("only read-only SELECT statements are allowed"), nil
	}

	rows, err := e.DB.QueryContext(ctx, sqlText)
	if err != nil {
		return e.classify(sqlText, err)
	}
	defer util.CloseWithErr(rows, "executor rows")

	cols, err := rows.Columns()
	if err != nil {
		return result.Outcome{}, errors.Wrap(err, "read columns")
	}
	values := make([]sql.RawBytes, len(cols))
	scanArgs := make([]any, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	out := result.SuccessOutcome(cols, make([][]string, 0))
	for rows.Next() {
		if e.MaxRows > 0 && len(out.Rows) >= e.MaxRows {
			out.Truncated = true
			break
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return e.classify(sqlText, err)
		}
		row := make([]string, 0, len(values))
		for _, v := range values {
			if v == nil {
				row = append(row, result.NullValue)
				continue
			}
			row = append(row, string(v))
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return e.classify(sqlText, err)
	}
	return out, nil
}

// classify maps a driver error to an outcome. Server-side MySQL errors
// become tagged outcomes with the verbatim message; everything else is an
// infrastructure failure and propagates.
func (e *Executor) classify(sqlText string, err error) (result.Outcome, error) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if _, ok := syntaxErrorCodes[mysqlErr.Number]; ok {
			return result.SyntaxErrOutcome(mysqlErr.Error()), nil
		}
		return result.RuntimeErrOutcome(mysqlErr.Error()), nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// The per-statement timeout fired. The query is too slow, not
		// the connection broken, so the batch keeps going.
		return result.RuntimeErrOutcome("statement timeout: " + err.Error()), nil
	}
	if isInfraError(err) {
		return result.Outcome{}, errors.Wrapf(err, "execute %q", truncateSQL(sqlText))
	}
	// Driver-side errors without a server code, e.g. packet or protocol
	// failures surfaced during row retrieval.
	return result.RuntimeErrOutcome(err.Error()), nil
}

func isInfraError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func truncateSQL(sqlText string) string {
	const max = 120
	if len(sqlText) <= max {
		return sqlText
	}
	return sqlText[:max] + "..."
}
