package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types recorded in the ledger.
const (
	MovementPurchase    = "PURCHASE"
	MovementSale        = "SALE"
	MovementReturn      = "RETURN"
	MovementAdjustment  = "ADJUSTMENT"
	MovementTransferIn  = "TRANSFER_IN"
	MovementTransferOut = "TRANSFER_OUT"
	MovementExchange    = "EXCHANGE"
)

// LedgerEntry is one immutable, signed-quantity stock movement record.
// The ledger is append-only: entries are never updated or deleted.
type LedgerEntry struct {
	ID           string
	ProductID    string
	SourceID     string
	MovementType string
	Quantity     decimal.Decimal // signed: positive into stock, negative out
	UnitPrice    decimal.Decimal
	Total        decimal.Decimal
	ReferenceID  string // order, purchase receipt, adjustment or transfer id
	Notes        string // e.g. mandatory adjustment reason
	CreatedAt    time.Time
}
