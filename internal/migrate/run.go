// Package migrate applies the embedded SQL schema for spot_features and audio_files.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration is one embedded schema change and whether it has been recorded as applied.
type Migration struct {
	Version string
	Applied bool
}

// Run applies every embedded migration that has not been recorded yet. It is safe to call repeatedly.
func Run(ctx context.Context, db *sql.DB) error {
	if err := ensureVersionTable(ctx, db); err != nil {
		return err
	}

	versions, err := embeddedVersions()
	if err != nil {
		return err
	}
	for _, v := range versions {
		if err := apply(ctx, db, v); err != nil {
			return err
		}
	}
	return nil
}

// Status lists embedded migrations in order with their applied state.
func Status(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if err := ensureVersionTable(ctx, db); err != nil {
		return nil, err
	}

	versions, err := embeddedVersions()
	if err != nil {
		return nil, err
	}
	out := make([]Migration, 0, len(versions))
	for _, v := range versions {
		applied, err := isApplied(ctx, db, v)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Version: v, Applied: applied})
	}
	return out, nil
}

func ensureVersionTable(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func embeddedVersions() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var versions []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			versions = append(versions, strings.TrimSuffix(e.Name(), ".sql"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func isApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var exists bool
	const q = `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := db.QueryRowContext(ctx, q, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return exists, nil
}

func apply(ctx context.Context, db *sql.DB, version string) error {
	applied, err := isApplied(ctx, db, version)
	if err != nil || applied {
		return err
	}

	body, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return fmt.Errorf("read migration %s: %w", version, err)
	}

	logger := slog.Default().With("component", "migrations")
	logger.InfoContext(ctx, "applying migration", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback migration", "version", version, "error", rbErr)
		}
	}()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("exec migration %s: %w", version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("record migration %s: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", version, err)
	}
	return nil
}
