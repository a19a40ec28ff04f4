package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"token-pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Only the latest snapshot per symbol is kept; there is no history table.
const createTokenSnapshotsTable = `
CREATE TABLE IF NOT EXISTS token_snapshots (
    symbol      TEXT        PRIMARY KEY,
    position    INT         NOT NULL,
    payload     JSONB       NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type TokenRepository struct {
	pool   PgxPool
	tracer trace.Tracer
	now    func() time.Time
}

func NewTokenRepository(pool PgxPool, tracer trace.Tracer) *TokenRepository {
	return &TokenRepository{pool: pool, tracer: tracer, now: time.Now}
}

func (r *TokenRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "token-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createTokenSnapshotsTable)
	return err
}

// SaveTokens replaces the stored last-known-good set. Symbols missing from
// tokens are removed so the stored set mirrors the published one.
func (r *TokenRepository) SaveTokens(ctx context.Context, tokens []domain.Token) error {
	if len(tokens) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "token-repo.save-tokens")
	defer span.End()
	span.SetAttributes(attribute.Int("token.count", len(tokens)))

	now := r.now().UTC()
	symbols := make([]string, 0, len(tokens))
	batch := &pgx.Batch{}
	for i, t := range tokens {
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode token %s: %w", t.Symbol, err)
		}
		symbols = append(symbols, t.Symbol)
		batch.Queue(
			`INSERT INTO token_snapshots (symbol, position, payload, updated_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (symbol) DO UPDATE SET
			     position = EXCLUDED.position,
			     payload = EXCLUDED.payload,
			     updated_at = EXCLUDED.updated_at`,
			t.Symbol, i, payload, now,
		)
	}
	batch.Queue(`DELETE FROM token_snapshots WHERE NOT (symbol = ANY($1))`, symbols)

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadTokens returns the stored set in its published order.
func (r *TokenRepository) LoadTokens(ctx context.Context) ([]domain.Token, error) {
	_, span := r.tracer.Start(ctx, "token-repo.load-tokens")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT payload FROM token_snapshots ORDER BY position ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var t domain.Token
		if err := json.Unmarshal(payload, &t); err != nil {
			return nil, fmt.Errorf("decode token snapshot: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
