package repository

import (
	"time"

	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
)

// LedgerRepository is the append-only stock movement log. There is no update
// or delete: corrections are new Adjustment entries.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByReference(referenceID string) ([]*entity.LedgerEntry, error)
}
