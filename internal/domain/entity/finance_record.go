package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Finance record types.
const (
	FinanceIncome  = "INCOME"
	FinanceExpense = "EXPENSE"
)

// FinanceRecord is the monetary consequence of one stock-affecting event:
// income for sales and positive exchanges, expense for purchases and refunds.
// Records are immutable after creation.
type FinanceRecord struct {
	ID            string
	Amount        decimal.Decimal
	Type          string // INCOME or EXPENSE
	Category      string // e.g. "sale", "purchase", "refund", "exchange"
	ReferenceID   string
	PaymentMethod string
	Description   string
	CreatedAt     time.Time
}
