package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAggregate is the per-source counter row: one row per (product, source
// receipt). It mirrors the unit registry and must stay in lockstep with it:
// every counter change happens in the same transaction as the matching unit
// status transition.
type StockAggregate struct {
	ProductID string
	SourceID  string
	Available int
	Reserved  int
	Sold      int
	UnitCost  decimal.Decimal
	UpdatedAt time.Time
}

// Total returns available+reserved+sold, the number of units this source
// still accounts for (written-off units leave the counters).
func (a *StockAggregate) Total() int {
	return a.Available + a.Reserved + a.Sold
}
