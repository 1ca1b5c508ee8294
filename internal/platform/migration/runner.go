// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the versioned SQL schema with golang-migrate
before the server takes traffic.

The schema is read from an [fs.FS]: the files embedded in the binary by
default, or a directory when MIGRATION_PATH points at one.
*/
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taibuivan/comunidad/data/migrations"
)

// Source picks the migration files: dir when set, the embedded set otherwise.
func Source(dir string) fs.FS {
	if dir == "" {
		return migrations.Files
	}
	return os.DirFS(dir)
}

/*
RunUp applies every pending up migration.

A database left dirty by a failed migration is refused; it needs an
operator to fix the schema and force the version.
*/
func RunUp(dsn string, files fs.FS, logger *slog.Logger) error {
	source, err := iofs.New(files, ".")
	if err != nil {
		return fmt.Errorf("migration: open source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: connect: %w", err)
	}
	defer func() {
		if sourceErr, databaseErr := migrator.Close(); sourceErr != nil || databaseErr != nil {
			logger.Warn("migration_close_failed",
				slog.Any("source_error", sourceErr),
				slog.Any("database_error", databaseErr),
			)
		}
	}()
	migrator.Log = migrateLogger{logger: logger}

	from, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		from = 0
	case err != nil:
		return fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return fmt.Errorf("migration: database is dirty at version %d", from)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
			return nil
		}
		return fmt.Errorf("migration: up: %w", err)
	}

	to, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// pgx5URL rewrites a postgres:// or postgresql:// URL to the pgx5:// scheme
// golang-migrate registers for pgx v5. Other inputs pass through.
func pgx5URL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, scheme); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger forwards golang-migrate output to slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (adapter migrateLogger) Printf(format string, args ...any) {
	adapter.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), slog.String("component", "migrate"))
}

func (adapter migrateLogger) Verbose() bool { return false }
