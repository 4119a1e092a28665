package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase order delivery statuses.
const (
	POPending            = "PENDING"
	POPartiallyDelivered = "PARTIALLY_DELIVERED"
	PODelivered          = "DELIVERED"
)

// PurchaseOrder is an order placed with a supplier. Receipts against it
// register stock units and advance item and header status.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	Status     string
	OrderedAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Items      []PurchaseOrderItem
}

// PurchaseOrderItem is one product line on a purchase order.
type PurchaseOrderItem struct {
	ID          string
	POID        string
	ProductID   string
	OrderedQty  int
	ReceivedQty int
	UnitCost    decimal.Decimal
	Status      string
}

// Outstanding returns the quantity still undelivered on this item.
func (i *PurchaseOrderItem) Outstanding() int {
	return i.OrderedQty - i.ReceivedQty
}
