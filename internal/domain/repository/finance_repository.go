package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// FinanceRepository is the finance sink: one immutable record per monetary
// consequence, linked to its stock event by reference id.
type FinanceRepository interface {
	Create(record *entity.FinanceRecord) error
	ListByReference(referenceID string) ([]*entity.FinanceRecord, error)
}
