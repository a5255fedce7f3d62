package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor over the pgx pool. Settlement
// uses it to commit the status flip and payout rows as one transaction.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps the connection pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a database transaction on the pool.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
