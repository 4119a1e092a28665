package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
	"github.com/swarnpos/jewelpos-api/internal/domain"
)

var _ fulfillment.TxRunner = (*TxRunner)(nil)

// TxRunner executes fulfillment callbacks inside one PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, hands fn repositories bound to it and commits on
// success, rolls back on error. Lock and serialization conflicts come back as
// domain.ErrContention so callers can retry the whole event.
func (r *TxRunner) Run(ctx context.Context, fn func(repos fulfillment.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := fulfillment.TxRepos{
		Units:      NewUnitRepository(tx),
		Aggregates: NewAggregateRepository(tx),
		Ledger:     NewLedgerRepository(tx),
		Orders:     NewOrderRepository(tx),
		Purchases:  NewPurchaseOrderRepository(tx),
		Finance:    NewFinanceRepository(tx),
		Rates:      NewRateRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isContention(err) {
			return fmt.Errorf("%w: %v", domain.ErrContention, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isContention(err) {
			return fmt.Errorf("%w: %v", domain.ErrContention, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
