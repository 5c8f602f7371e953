package postgres

import (
	"context"
	"fmt"
)

// Migrations returns the schema statements, applied in order on every start.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS sys_mutation_journal (
			id                 TEXT PRIMARY KEY,
			op                 TEXT NOT NULL,
			operator           TEXT NOT NULL DEFAULT '',
			collections        TEXT[] NOT NULL,
			payload            JSONB,
			payload_compressed BYTEA,
			compression_algo   TEXT NOT NULL DEFAULT 'none',
			duration_ms        BIGINT NOT NULL DEFAULT 0,
			applied_at         TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mutation_journal_applied ON sys_mutation_journal(applied_at DESC)`,
	}
}

// Migrate applies Migrations in one transaction.
func Migrate(ctx context.Context, txm *TxManager) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := txm.GetQuerier(ctx)
		for i, stmt := range Migrations() {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i, err)
			}
		}
		return nil
	})
}
