// Package db wraps a MySQL-protocol connection for query evaluation.
package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql" // Register the MySQL driver.
	"github.com/pkg/errors"
)

// DB is a thin wrapper over *sql.DB pinned to a single connection.
// Connections are not safe for concurrent evaluation use; callers that
// evaluate pairs in parallel must open one DB per worker.
type DB struct {
	conn    *sql.DB
	timeout time.Duration
}

// Open connects to the DSN and verifies the connection with a ping.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return &DB{conn: conn}, nil
}

// SetStatementTimeout bounds every statement issued through this handle.
// A non-positive value disables the bound.
func (d *DB) SetStatementTimeout(ms int) {
	if ms <= 0 {
		d.timeout = 0
		return
	}
	d.timeout = time.Duration(ms) * time.Millisecond
}

func (d *DB) statementContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.timeout)
}

// Rows keeps the statement timeout alive until the caller is done
// iterating. Close releases both the rows and the timeout.
type Rows struct {
	*sql.Rows
	cancel context.CancelFunc
}

// Close closes the underlying rows and releases the statement timeout.
func (r *Rows) Close() error {
	err := r.Rows.Close()
	r.cancel()
	return err
}

// QueryContext runs a query and returns its rows. The statement timeout
// covers row retrieval, so the rows must be closed to release it.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*Rows, error) {
	ctx, cancel := d.statementContext(ctx)
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Rows{Rows: rows, cancel: cancel}, nil
}

// QueryScalar runs a query expected to return a single value and scans it
// into dest within the statement timeout.
func (d *DB) QueryScalar(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := d.statementContext(ctx)
	defer cancel()
	return d.conn.QueryRowContext(ctx, query, args...).Scan(dest)
}

// PrepareContext prepares a statement without executing it.
func (d *DB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	ctx, cancel := d.statementContext(ctx)
	defer cancel()
	return d.conn.PrepareContext(ctx, query)
}

// PingContext verifies the connection is still alive.
func (d *DB) PingContext(ctx context.Context) error {
	return d.conn.PingContext(ctx)
}

// ServerVersion returns the server version string for report metadata.
func (d *DB) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := d.QueryScalar(ctx, &version, "SELECT VERSION()"); err != nil {
		return "", errors.Wrap(err, "query server version")
	}
	return version, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}
