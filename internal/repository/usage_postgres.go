package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const usageCountersSchema = `
CREATE TABLE IF NOT EXISTS usage_counters (
	usage_key  TEXT PRIMARY KEY,
	count      INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresUsageStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUsageStore creates the usage_counters table if needed and returns
// a UsageStore on top of it.
func NewPostgresUsageStore(ctx context.Context, pool *pgxpool.Pool) (UsageStore, error) {
	if _, err := pool.Exec(ctx, usageCountersSchema); err != nil {
		return nil, fmt.Errorf("creating usage_counters table: %w", err)
	}
	return &postgresUsageStore{pool: pool}, nil
}

func (r *postgresUsageStore) Get(ctx context.Context, key string) (int, error) {
	var count int
	const q = `SELECT count FROM usage_counters WHERE usage_key = $1`
	if err := r.pool.QueryRow(ctx, q, key).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading usage %s: %w", key, err)
	}
	return count, nil
}

func (r *postgresUsageStore) Increment(ctx context.Context, key string) (int, error) {
	var count int
	const q = `
		INSERT INTO usage_counters (usage_key, count)
		VALUES ($1, 1)
		ON CONFLICT (usage_key)
		DO UPDATE SET count = usage_counters.count + 1, updated_at = now()
		RETURNING count
	`
	if err := r.pool.QueryRow(ctx, q, key).Scan(&count); err != nil {
		return 0, fmt.Errorf("incrementing usage %s: %w", key, err)
	}
	return count, nil
}
