package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

var _ repository.AggregateRepository = (*AggregateRepo)(nil)

// AggregateRepo implements the per-source counter port over PostgreSQL.
type AggregateRepo struct {
	q Querier
}

// NewAggregateRepository builds the counter adapter. Pass pool or tx (Querier).
func NewAggregateRepository(q Querier) *AggregateRepo {
	return &AggregateRepo{q: q}
}

const aggregateColumns = `product_id, source_id, available, reserved, sold, unit_cost, updated_at`

func scanAggregate(row pgx.Row) (*entity.StockAggregate, error) {
	var a entity.StockAggregate
	err := row.Scan(&a.ProductID, &a.SourceID, &a.Available, &a.Reserved, &a.Sold, &a.UnitCost, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan aggregate: %w", err)
	}
	return &a, nil
}

// Get fetches one counter row. Returns nil when the pair has no row.
func (r *AggregateRepo) Get(productID, sourceID string) (*entity.StockAggregate, error) {
	query := `SELECT ` + aggregateColumns + ` FROM stock_aggregates WHERE product_id = $1 AND source_id = $2`
	return scanAggregate(r.q.QueryRow(context.Background(), query, productID, sourceID))
}

// GetForUpdate fetches and row-locks one counter row.
func (r *AggregateRepo) GetForUpdate(productID, sourceID string) (*entity.StockAggregate, error) {
	query := `SELECT ` + aggregateColumns + ` FROM stock_aggregates WHERE product_id = $1 AND source_id = $2 FOR UPDATE`
	return scanAggregate(r.q.QueryRow(context.Background(), query, productID, sourceID))
}

// Upsert writes a counter row, replacing the counts on conflict.
func (r *AggregateRepo) Upsert(agg *entity.StockAggregate) error {
	query := `
		INSERT INTO stock_aggregates (product_id, source_id, available, reserved, sold, unit_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, source_id)
		DO UPDATE SET available = EXCLUDED.available, reserved = EXCLUDED.reserved,
			sold = EXCLUDED.sold, unit_cost = EXCLUDED.unit_cost, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		agg.ProductID, agg.SourceID, agg.Available, agg.Reserved, agg.Sold, agg.UnitCost, agg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert aggregate: %w", err)
	}
	return nil
}

// ListByProduct lists the counter rows of one product.
func (r *AggregateRepo) ListByProduct(productID string) ([]*entity.StockAggregate, error) {
	query := `SELECT ` + aggregateColumns + ` FROM stock_aggregates WHERE product_id = $1 ORDER BY updated_at DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}
	return collectAggregates(rows)
}

// ListAll returns every counter row (snapshot read for the auditor).
func (r *AggregateRepo) ListAll() ([]*entity.StockAggregate, error) {
	query := `SELECT ` + aggregateColumns + ` FROM stock_aggregates`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all aggregates: %w", err)
	}
	return collectAggregates(rows)
}

func collectAggregates(rows pgx.Rows) ([]*entity.StockAggregate, error) {
	defer rows.Close()
	var out []*entity.StockAggregate
	for rows.Next() {
		var a entity.StockAggregate
		if err := rows.Scan(&a.ProductID, &a.SourceID, &a.Available, &a.Reserved, &a.Sold, &a.UnitCost, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
