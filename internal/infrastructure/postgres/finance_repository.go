package postgres

import (
	"context"
	"fmt"

	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo implements the finance record port over PostgreSQL. Records are
// append-only.
type FinanceRepo struct {
	q Querier
}

// NewFinanceRepository builds the finance adapter. Pass pool or tx (Querier).
func NewFinanceRepository(q Querier) *FinanceRepo {
	return &FinanceRepo{q: q}
}

// Create inserts one finance record.
func (r *FinanceRepo) Create(record *entity.FinanceRecord) error {
	query := `
		INSERT INTO finance_records (id, amount, type, category, reference_id, payment_method, description, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.Amount, record.Type, record.Category,
		record.ReferenceID, record.PaymentMethod, record.Description, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert finance record: %w", err)
	}
	return nil
}

// ListByReference returns the records tied to one stock event.
func (r *FinanceRepo) ListByReference(referenceID string) ([]*entity.FinanceRecord, error) {
	query := `
		SELECT id, amount, type, category, reference_id, COALESCE(payment_method, ''), description, created_at
		FROM finance_records WHERE reference_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("finance by reference: %w", err)
	}
	defer rows.Close()

	var out []*entity.FinanceRecord
	for rows.Next() {
		var f entity.FinanceRecord
		err := rows.Scan(&f.ID, &f.Amount, &f.Type, &f.Category, &f.ReferenceID, &f.PaymentMethod, &f.Description, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan finance record: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
