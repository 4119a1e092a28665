package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// AggregateRepository is the per-source counter port. Counters are mutated
// only inside the same transaction as the matching unit registry transition.
type AggregateRepository interface {
	Get(productID, sourceID string) (*entity.StockAggregate, error)
	// GetForUpdate locks the counter row (SELECT FOR UPDATE).
	GetForUpdate(productID, sourceID string) (*entity.StockAggregate, error)
	Upsert(agg *entity.StockAggregate) error
	ListByProduct(productID string) ([]*entity.StockAggregate, error)
	// ListAll returns every aggregate row (snapshot read, auditor).
	ListAll() ([]*entity.StockAggregate, error)
}
