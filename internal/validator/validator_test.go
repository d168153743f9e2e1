package validator

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pkg/errors"
)

type stubPreparer struct {
	prepared []string
	err      error
}

func (s *stubPreparer) PrepareContext(_ context.Context, query string) (*sql.Stmt, error) {
	s.prepared = append(s.prepared, query)
	return nil, s.err
}

func TestValidate(t *testing.T) {
	v := New()
	if err := v.Validate("SELECT id, name FROM users WHERE id > 10"); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	if err := v.Validate("SELEC id FROM users"); err == nil {
		t.Fatalf("expected syntax error for malformed SELECT")
	}
	if err := v.Validate("SELECT FROM WHERE"); err == nil {
		t.Fatalf("expected syntax error for incomplete query")
	}
}

func TestIsSelectClass(t *testing.T) {
	v := New()
	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"SELECT a FROM t UNION SELECT b FROM u", true},
		{"WITH q AS (SELECT 1) SELECT * FROM q", true},
		{"INSERT INTO t VALUES (1)", false},
		{"UPDATE t SET a = 1", false},
		{"DELETE FROM t", false},
		{"DROP TABLE t", false},
	}
	for _, tc := range cases {
		stmt, err := v.ParseOne(tc.sql)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.sql, err)
		}
		if got := IsSelectClass(stmt); got != tc.want {
			t.Fatalf("IsSelectClass(%q) = %t, want %t", tc.sql, got, tc.want)
		}
	}
}

func TestEngineCheckerShortCircuitsOnParseError(t *testing.T) {
	p := &stubPreparer{}
	c := NewEngineChecker(p)
	if err := c.Validate(context.Background(), "SELEC 1"); err == nil {
		t.Fatalf("expected parse error")
	}
	if len(p.prepared) != 0 {
		t.Fatalf("unparseable statement must not reach the engine: %v", p.prepared)
	}
}

func TestEngineCheckerPreparesOnEngine(t *testing.T) {
	p := &stubPreparer{}
	c := NewEngineChecker(p)
	if err := c.Validate(context.Background(), "SELECT 1"); err != nil {
		t.Fatalf("valid statement rejected: %v", err)
	}
	if len(p.prepared) != 1 || p.prepared[0] != "SELECT 1" {
		t.Fatalf("expected one engine prepare, got %v", p.prepared)
	}

	failing := &stubPreparer{err: errors.New("Unknown table 'missing'")}
	c = NewEngineChecker(failing)
	if err := c.Validate(context.Background(), "SELECT * FROM missing"); err == nil {
		t.Fatalf("expected engine prepare error to surface")
	}
}

func TestParseOneRejectsMultiple(t *testing.T) {
	v := New()
	if _, err := v.ParseOne("SELECT 1; SELECT 2"); err == nil {
		t.Fatalf("expected error for multi-statement input")
	}
}
