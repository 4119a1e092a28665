package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implements the append-only movement log over PostgreSQL. There
// is no UPDATE or DELETE path; corrections are new Adjustment entries.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository builds the ledger adapter. Pass pool or tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, product_id, source_id, movement_type, quantity, unit_price, total, reference_id, COALESCE(notes, ''), created_at`

// Append inserts one movement record.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (id, product_id, source_id, movement_type, quantity, unit_price, total, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.SourceID, entry.MovementType,
		entry.Quantity, entry.UnitPrice, entry.Total, entry.ReferenceID,
		entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByProduct lists a product's movements, newest first, optionally bounded
// by a time window.
func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	return collectLedgerEntries(rows)
}

// ListByReference returns the movements of one event (order, receipt,
// adjustment or transfer).
func (r *LedgerRepo) ListByReference(referenceID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE reference_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("ledger by reference: %w", err)
	}
	return collectLedgerEntries(rows)
}

func collectLedgerEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	defer rows.Close()
	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.SourceID, &e.MovementType,
			&e.Quantity, &e.UnitPrice, &e.Total, &e.ReferenceID,
			&e.Notes, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
