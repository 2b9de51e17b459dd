package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations is an append-only, ordered list. Each entry runs at most once;
// applied versions are recorded in schema_migrations.
var migrations = []struct {
	version int
	stmt    string
}{
	{
		version: 1,
		stmt: `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			login TEXT NOT NULL UNIQUE,
			password BYTEA NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			avatar_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		version: 2,
		stmt: `
		CREATE TABLE IF NOT EXISTS places (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			image TEXT,
			images JSONB NOT NULL DEFAULT '[]'::jsonb,
			badge TEXT,
			rating REAL,
			reviews INTEGER NOT NULL DEFAULT 0,
			features JSONB NOT NULL DEFAULT '[]'::jsonb,
			link TEXT,
			description TEXT,
			hours TEXT,
			phone TEXT,
			status TEXT NOT NULL DEFAULT 'approved',
			submitted_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		version: 3,
		stmt: `
		CREATE TABLE IF NOT EXISTS place_reviews (
			id BIGSERIAL PRIMARY KEY,
			place_id BIGINT NOT NULL REFERENCES places (id) ON DELETE CASCADE,
			user_id BIGINT REFERENCES users (id),
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			text TEXT NOT NULL DEFAULT '',
			photos JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at BIGINT NOT NULL
		)`,
	},
	{
		version: 4,
		stmt:    `CREATE INDEX IF NOT EXISTS place_reviews_place_id_idx ON place_reviews (place_id)`,
	},
	{
		version: 5,
		stmt:    `CREATE INDEX IF NOT EXISTS places_city_status_idx ON places (city, status)`,
	},
}

// Migrate applies pending migrations in order. It replaces the old
// add-column-if-absent probing with a versioned ledger so a fresh database
// and a long-lived one end up with the same schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	err = pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, m.stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
	}

	return nil
}
