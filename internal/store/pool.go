// Package store holds the three persistent stores Stage A/B/C write
// through: IdStore (discovered identifiers), LangStore (per-language
// projected entities), and EmbedCache (id -> embedding vector). All three
// are pgx/v5-backed Postgres tables with the original implementation's
// upsert semantics: monotone-OR for IdStore's boolean flags, conflict-ignore
// for LangStore and EmbedCache.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OpenPool creates a Postgres connection pool with conservative pooling
// defaults and verifies connectivity with a bounded ping.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
