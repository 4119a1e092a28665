package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

// UnitRepo implements the unit registry port over PostgreSQL.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository builds the unit registry adapter. Pass pool or tx (Querier).
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

const unitColumns = `id, product_id, source_id, tag_number, barcode, cost, sale_price, status, COALESCE(order_id, ''), consumed_at, created_at, updated_at`

func scanUnit(row pgx.Row) (*entity.StockUnit, error) {
	var u entity.StockUnit
	err := row.Scan(
		&u.ID, &u.ProductID, &u.SourceID, &u.TagNumber, &u.Barcode,
		&u.Cost, &u.SalePrice, &u.Status, &u.OrderID, &u.ConsumedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan unit: %w", err)
	}
	return &u, nil
}

func collectUnits(rows pgx.Rows) ([]*entity.StockUnit, error) {
	defer rows.Close()
	var out []*entity.StockUnit
	for rows.Next() {
		var u entity.StockUnit
		err := rows.Scan(
			&u.ID, &u.ProductID, &u.SourceID, &u.TagNumber, &u.Barcode,
			&u.Cost, &u.SalePrice, &u.Status, &u.OrderID, &u.ConsumedAt,
			&u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// Create inserts a fresh unit. Tag and barcode collisions come back as
// domain.ErrDuplicate for the caller to retry with new identifiers.
func (r *UnitRepo) Create(unit *entity.StockUnit) error {
	query := `
		INSERT INTO stock_units (id, product_id, source_id, tag_number, barcode, cost, sale_price, status, order_id, consumed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.ProductID, unit.SourceID, unit.TagNumber, unit.Barcode,
		unit.Cost, unit.SalePrice, unit.Status, unit.OrderID, unit.ConsumedAt,
		unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// GetByID fetches a unit by ID.
func (r *UnitRepo) GetByID(id string) (*entity.StockUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM stock_units WHERE id = $1`
	return scanUnit(r.q.QueryRow(context.Background(), query, id))
}

// GetByTag fetches a unit by its printed tag number.
func (r *UnitRepo) GetByTag(tagNumber string) (*entity.StockUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM stock_units WHERE tag_number = $1`
	return scanUnit(r.q.QueryRow(context.Background(), query, tagNumber))
}

// AllocateOldest locks up to qty AVAILABLE units of a product, oldest first.
// SKIP LOCKED is deliberately not used: two concurrent sales of the same
// product must serialize, not interleave, so FIFO order stays strict.
func (r *UnitRepo) AllocateOldest(productID string, qty int) ([]*entity.StockUnit, error) {
	query := `
		SELECT ` + unitColumns + `
		FROM stock_units
		WHERE product_id = $1 AND status = 'AVAILABLE'
		ORDER BY created_at, id
		LIMIT $2
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("allocate units: %w", err)
	}
	return collectUnits(rows)
}

// GetByOrderID returns the units consumed by an order.
func (r *UnitRepo) GetByOrderID(orderID string) ([]*entity.StockUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM stock_units WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("units by order: %w", err)
	}
	return collectUnits(rows)
}

// UpdateStatus persists a status transition with its side fields.
func (r *UnitRepo) UpdateStatus(unit *entity.StockUnit) error {
	query := `
		UPDATE stock_units
		SET status = $2, order_id = NULLIF($3, ''), consumed_at = $4, sale_price = $5, cost = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.Status, unit.OrderID, unit.ConsumedAt, unit.SalePrice, unit.Cost, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update unit status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus returns per-status unit counts for a (product, source) pair.
func (r *UnitRepo) CountByStatus(productID, sourceID string) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM stock_units
		WHERE product_id = $1 AND source_id = $2
		GROUP BY status`
	rows, err := r.q.Query(context.Background(), query, productID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("count units by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Sources returns every distinct (product, source) pair in the registry.
func (r *UnitRepo) Sources() ([]repository.SourceKey, error) {
	query := `SELECT DISTINCT product_id, source_id FROM stock_units`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list unit sources: %w", err)
	}
	defer rows.Close()

	var out []repository.SourceKey
	for rows.Next() {
		var key repository.SourceKey
		if err := rows.Scan(&key.ProductID, &key.SourceID); err != nil {
			return nil, fmt.Errorf("scan source key: %w", err)
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

// ListByProduct lists a product's units with pagination.
func (r *UnitRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockUnit, error) {
	query := `
		SELECT ` + unitColumns + `
		FROM stock_units
		WHERE product_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return collectUnits(rows)
}
