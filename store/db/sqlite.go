// Package db opens the sqlite app database holding background jobs and
// migration history.
package db // import "github.com/storyhouse/storyhouse/store/db"

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed schema/LATEST_SCHEMA.sql
var latestSchema string

type DB struct {
	*sql.DB
}

func NewDB(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	return &DB{d}, nil
}

// Migrate applies the latest schema. Every statement is IF NOT EXISTS so
// re-running on an existing database is a no-op.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, latestSchema); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	return nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}
