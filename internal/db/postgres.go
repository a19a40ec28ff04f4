package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Pool stays nil when DATABASE_URL is unset or Postgres is unreachable.
var Pool *pgxpool.Pool

var (
	newPool  = pgxpool.New
	pingPool = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
)

// InitPostgres opens the shared pool. An empty url is not an error: the
// durable store is optional.
func InitPostgres(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		log.Info().Msg("DATABASE_URL not set, durable token store disabled")
		return nil
	}

	pool, err := newPool(ctx, url)
	if err != nil {
		return fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pingPool(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	Pool = pool
	log.Info().Msg("connected to postgres")
	return nil
}

// Close releases the shared pool if one was opened.
func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
