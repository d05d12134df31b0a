package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name TEXT PRIMARY KEY,
	applied_at INTEGER NOT NULL
)`

// ApplyMigrations runs every *.sql file in dir, in name order, that is not
// yet recorded in schema_migrations. It returns the names it applied.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, dir string) ([]string, error) {
	names, done, err := migrationState(ctx, db, dir)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, name := range names {
		if done[name] {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return ran, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return ran, err
		}
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			tx.Rollback()
			return ran, fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, name, time.Now().Unix()); err != nil {
			tx.Rollback()
			return ran, err
		}
		if err := tx.Commit(); err != nil {
			return ran, err
		}

		log.Info().Str("migration", name).Msg("applied migration")
		ran = append(ran, name)
	}

	return ran, nil
}

// PendingMigrations returns the migrations in dir that ApplyMigrations would
// run, without running them.
func PendingMigrations(ctx context.Context, db *sqlx.DB, dir string) ([]string, error) {
	names, done, err := migrationState(ctx, db, dir)
	if err != nil {
		return nil, err
	}

	var pending []string
	for _, name := range names {
		if !done[name] {
			pending = append(pending, name)
		}
	}
	return pending, nil
}

func migrationState(ctx context.Context, db *sqlx.DB, dir string) ([]string, map[string]bool, error) {
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT name FROM schema_migrations`); err != nil {
		return nil, nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	return names, done, nil
}
