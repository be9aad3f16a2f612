package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// nodeTableDDL is the schema shared by all three kind tables. Table names are
// interpolated because each environment runs with its own prefix.
const nodeTableDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id           UUID PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	parent_id    UUID REFERENCES %[1]s(id) ON DELETE SET NULL,
	title        TEXT NOT NULL,
	content      TEXT NOT NULL DEFAULT '',
	icon         TEXT,
	cover_image  TEXT,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	is_archived  BOOLEAN NOT NULL DEFAULT FALSE,
	archived_at  TIMESTAMPTZ,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS %[1]s_owner_parent_idx ON %[1]s (owner_id, parent_id);
CREATE INDEX IF NOT EXISTS %[1]s_owner_created_idx ON %[1]s (owner_id, created_at DESC);
`

// Migrate creates the node tables for every kind if they do not exist yet.
// Each table migrates inside its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range []string{tables.Documents, tables.Profiles, tables.Events} {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin migration tx for %s: %w", table, err)
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf(nodeTableDDL, table)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migrate %s: %w", table, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration for %s: %w", table, err)
		}
	}

	return nil
}
