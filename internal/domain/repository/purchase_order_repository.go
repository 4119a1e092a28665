package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// PurchaseOrderRepository persists supplier purchase orders and their items.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetItemForUpdate locks one PO item row so concurrent receipts cannot
	// both consume the same outstanding quantity.
	GetItemForUpdate(poID, productID string) (*entity.PurchaseOrderItem, error)
	UpdateItem(item *entity.PurchaseOrderItem) error
	UpdateStatus(poID, status string) error
}
