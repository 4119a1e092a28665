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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements the purchase order port over PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository builds the PO adapter. Pass pool or tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserts a purchase order with its items.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, supplier_id, status, ordered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.SupplierID, po.Status, po.OrderedAt, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for _, item := range po.Items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO purchase_order_items (id, po_id, product_id, ordered_qty, received_qty, unit_cost, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.POID, item.ProductID, item.OrderedQty, item.ReceivedQty, item.UnitCost, item.Status,
		)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

// GetByID fetches a purchase order and its items. Returns nil when it does
// not exist.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, supplier_id, status, ordered_at, created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&po.ID, &po.SupplierID, &po.Status, &po.OrderedAt, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, po_id, product_id, ordered_qty, received_qty, unit_cost, status
		FROM purchase_order_items WHERE po_id = $1 ORDER BY product_id`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.POID, &item.ProductID, &item.OrderedQty, &item.ReceivedQty, &item.UnitCost, &item.Status); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		po.Items = append(po.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &po, nil
}

// GetItemForUpdate fetches and row-locks one PO item so concurrent receipts
// cannot both consume the same outstanding quantity.
func (r *PurchaseOrderRepo) GetItemForUpdate(poID, productID string) (*entity.PurchaseOrderItem, error) {
	query := `
		SELECT id, po_id, product_id, ordered_qty, received_qty, unit_cost, status
		FROM purchase_order_items WHERE po_id = $1 AND product_id = $2
		FOR UPDATE`
	var item entity.PurchaseOrderItem
	err := r.q.QueryRow(context.Background(), query, poID, productID).Scan(
		&item.ID, &item.POID, &item.ProductID, &item.OrderedQty, &item.ReceivedQty, &item.UnitCost, &item.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock purchase order item: %w", err)
	}
	return &item, nil
}

// UpdateItem persists an item's delivery progress.
func (r *PurchaseOrderRepo) UpdateItem(item *entity.PurchaseOrderItem) error {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE purchase_order_items SET received_qty = $2, status = $3 WHERE id = $1`,
		item.ID, item.ReceivedQty, item.Status,
	)
	if err != nil {
		return fmt.Errorf("update purchase order item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus moves the PO header to a new status.
func (r *PurchaseOrderRepo) UpdateStatus(poID, status string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`,
		poID, status,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
