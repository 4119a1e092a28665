package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit lifecycle states. Transitions are monotonic except SOLD -> RETURNED
// and the restock edge RETURNED -> AVAILABLE; WRITTEN_OFF is terminal.
const (
	UnitAvailable  = "AVAILABLE"
	UnitReserved   = "RESERVED"
	UnitSold       = "SOLD"
	UnitReturned   = "RETURNED"
	UnitWrittenOff = "WRITTEN_OFF"
)

// StockUnit is one physically distinguishable, individually tagged piece.
// Units are never deleted; corrections happen through status transitions
// driven by fulfillment events.
type StockUnit struct {
	ID          string
	ProductID   string
	SourceID    string // receipt that brought the unit in (purchase receipt, exchange leg, adjustment)
	TagNumber   string // {2-letter metal prefix}{YYYYMMDD}{4-digit random}, unique
	Barcode     string // ITM-{productId:4digits}-{YYYYMMDD}-{4-digit random}, unique
	Cost        decimal.Decimal
	SalePrice   decimal.Decimal
	Status      string
	OrderID     string // consuming order, set when the unit is sold
	ConsumedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransition reports whether moving from the unit's current status to the
// target status is a legal lifecycle edge.
func (u *StockUnit) CanTransition(target string) bool {
	switch u.Status {
	case UnitAvailable:
		return target == UnitReserved || target == UnitWrittenOff
	case UnitReserved:
		return target == UnitSold || target == UnitAvailable
	case UnitSold:
		return target == UnitReturned
	case UnitReturned:
		return target == UnitAvailable
	default:
		return false
	}
}
