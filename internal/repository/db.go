package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// a pool that cannot answer a ping this fast will not serve the batch jobs
const pingTimeout = 3 * time.Second

// NewPool opens a pgx pool against the fulfillment schema and verifies
// connectivity before handing it out. Schema setup is separate, see Migrate.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
