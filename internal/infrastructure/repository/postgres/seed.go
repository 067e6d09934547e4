package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/darts-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the demo fixtures when the fixtures table is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM fixtures WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count fixtures for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, f := range memory.SeedFixtures() {
		query, args, err := fixtureUpsertQuery(f)
		if err != nil {
			return fmt.Errorf("bind seed fixture %s query: %w", f.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed fixture %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
