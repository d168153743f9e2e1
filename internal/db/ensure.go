package db

import (
	"context"
	"database/sql"

	"nl2sqleval/internal/config"
	"nl2sqleval/internal/util"

	"github.com/pkg/errors"
)

// CheckDatabase verifies the target database exists before evaluation
// starts. The evaluator is strictly read-only, so a missing database is
// reported rather than created.
func CheckDatabase(ctx context.Context, dsn string, dbName string) error {
	if dbName == "" {
		return nil
	}
	exec, err := Open(config.AdminDSN(dsn))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(exec, "db exec")
	var name string
	err = exec.QueryScalar(ctx, &name,
		"SELECT SCHEMA_NAME FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?", dbName)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Errorf("database %q does not exist", dbName)
	}
	return errors.Wrap(err, "check database")
}
