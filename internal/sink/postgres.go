package sink

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telemetryd/internal/decoder"
)

// saveBatchTimeout bounds a single bulk-copy operation, matching the
// original store's copy_records_to_table timeout.
const saveBatchTimeout = 10 * time.Second

// Postgres is a BatchSink backed by a pgx connection pool, bulk-inserting
// via COPY the way the original store used asyncpg's
// copy_records_to_table.
type Postgres struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewPostgres returns a Postgres sink writing into tableName (normally
// "telemetry_packets").
func NewPostgres(pool *pgxpool.Pool, tableName string) *Postgres {
	return &Postgres{pool: pool, tableName: tableName}
}

// SaveBatch bulk-inserts packets in one COPY. An empty batch is a no-op.
func (p *Postgres) SaveBatch(ctx context.Context, packets []decoder.Packet) error {
	if len(packets) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, saveBatchTimeout)
	defer cancel()

	rows := make([][]any, len(packets))
	for i, pkt := range packets {
		rows[i] = Row(pkt)
	}

	_, err := p.pool.CopyFrom(
		ctx,
		pgx.Identifier{p.tableName},
		Columns,
		pgx.CopyFromRows(rows),
	)
	return err
}
