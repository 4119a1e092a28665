package repository

import (
	"time"

	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
)

// OrderRepository persists sale headers and lines. Orders are immutable after
// commit except the status field.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateLine(line *entity.OrderLine) error
	GetByID(id string) (*entity.Order, error)
	GetLines(orderID string) ([]*entity.OrderLine, error)
	UpdateStatus(orderID, status string) error
	// NextInvoiceSequence advances and returns the daily invoice counter for
	// the given day. Must be called inside the sale transaction.
	NextInvoiceSequence(day time.Time) (int, error)
}
