// Package validator provides cheap syntax checks for SQL statements.
package validator

import (
	"context"
	"database/sql"

	"nl2sqleval/internal/util"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pkg/errors"
	_ "github.com/pingcap/tidb/pkg/types/parser_driver" // Register TiDB parser driver.
)

// Validator wraps the TiDB parser for SQL validation. It parses without
// touching a database, so cost is independent of result-set size.
// A Validator is not safe for concurrent use; open one per worker.
type Validator struct {
	parser *parser.Parser
}

// New returns a Validator instance.
func New() *Validator {
	return &Validator{parser: parser.New()}
}

// Validate parses a SQL statement and returns any syntax error.
func (v *Validator) Validate(sql string) error {
	_, _, err := v.parser.Parse(sql, "", "")
	return err
}

// ParseOne parses exactly one statement and returns its AST.
func (v *Validator) ParseOne(sql string) (ast.StmtNode, error) {
	stmts, _, err := v.parser.Parse(sql, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmts) != 1 {
		return nil, errors.Errorf("expected one statement, got %d", len(stmts))
	}
	return stmts[0], nil
}

// IsSelectClass reports whether a parsed statement is a read-only
// SELECT-class statement: a plain SELECT or a set operation over SELECTs.
func IsSelectClass(stmt ast.StmtNode) bool {
	switch stmt.(type) {
	case *ast.SelectStmt, *ast.SetOprStmt:
		return true
	default:
		return false
	}
}

// Preparer prepares a statement without executing it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// CheckOnDB prepares the statement against the target engine without
// fetching rows, catching dialect errors the parser cannot see.
func (v *Validator) CheckOnDB(ctx context.Context, exec Preparer, sql string) error {
	stmt, err := exec.PrepareContext(ctx, sql)
	if err != nil {
		return err
	}
	util.CloseWithErr(stmt, "prepared statement")
	return nil
}

// EngineChecker validates first with the parser and then by preparing
// the statement on the target engine. The parser check is cheap and
// filters unparseable input before the engine sees it.
type EngineChecker struct {
	validator *Validator
	exec      Preparer
}

// NewEngineChecker returns a checker backed by exec.
func NewEngineChecker(exec Preparer) *EngineChecker {
	return &EngineChecker{validator: New(), exec: exec}
}

// Validate parses the statement and prepares it on the engine.
func (c *EngineChecker) Validate(ctx context.Context, sql string) error {
	if err := c.validator.Validate(sql); err != nil {
		return err
	}
	return c.validator.CheckOnDB(ctx, c.exec, sql)
}
