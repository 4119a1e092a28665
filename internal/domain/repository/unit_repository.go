package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// SourceKey identifies one (product, source receipt) pair.
type SourceKey struct {
	ProductID string
	SourceID  string
}

// UnitRepository is the port of the unit registry: individually tagged stock
// pieces. Status mutations only happen inside fulfillment transactions.
type UnitRepository interface {
	Create(unit *entity.StockUnit) error
	GetByID(id string) (*entity.StockUnit, error)
	GetByTag(tagNumber string) (*entity.StockUnit, error)
	// AllocateOldest locks up to qty AVAILABLE units of a product, oldest
	// first (FIFO by created_at, id). Returns fewer rows than qty when stock
	// is short; the engine then aborts with ErrInsufficientStock.
	AllocateOldest(productID string, qty int) ([]*entity.StockUnit, error)
	// GetByOrderID returns the units consumed by an order (for returns).
	GetByOrderID(orderID string) ([]*entity.StockUnit, error)
	// UpdateStatus persists a status transition, stamping the consuming order
	// where one applies.
	UpdateStatus(unit *entity.StockUnit) error
	// CountByStatus returns per-status unit counts for a (product, source)
	// pair. Snapshot read, used by the auditor.
	CountByStatus(productID, sourceID string) (map[string]int, error)
	// Sources returns every distinct (product, source) pair known to the
	// registry, so the auditor also catches sources missing a counter row.
	Sources() ([]SourceKey, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockUnit, error)
}
