package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. Headers and lines are immutable after commit except Status.
const (
	OrderCompleted = "COMPLETED"
	OrderReturned  = "RETURNED"
)

// Payment methods accepted at the counter.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentUPI  = "UPI"
)

// Order is a committed sale header. InvoiceNumber follows
// {YYYYMMDD}-{4-digit sequence}, the sequence resetting daily.
type Order struct {
	ID            string
	InvoiceNumber string
	CustomerID    string
	Date          time.Time
	PaymentMethod string
	InterState    bool // true -> IGST applied instead of CGST+SGST
	Subtotal      decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	GrandTotal    decimal.Decimal
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderLine is one product line on an order, bound to the concrete units
// allocated for it.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	UnitIDs   []string
}
