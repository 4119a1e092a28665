package fulfillment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

// TxRepos bundles the repositories bound to one database transaction. Every
// stock-affecting event mutates registry, counters, ledger and finance through
// this one set, so either all writes land or none do.
type TxRepos struct {
	Units      repository.UnitRepository
	Aggregates repository.AggregateRepository
	Ledger     repository.LedgerRepository
	Orders     repository.OrderRepository
	Purchases  repository.PurchaseOrderRepository
	Finance    repository.FinanceRepository
	Rates      repository.RateRepository
}

// TxRunner runs a function inside a database transaction, passing repositories
// bound to that transaction. Guarantees atomicity for the fulfillment engine.
// Lock conflicts and serialization failures surface as domain.ErrContention;
// retrying the whole event is the caller's responsibility.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// Notification is the post-commit event payload for the notification sink.
type Notification struct {
	EventType     string // "sale" or "exchange"
	ReferenceID   string
	InvoiceNumber string
	Amount        decimal.Decimal
	OccurredAt    time.Time
}

// NotificationSink is informed after a Sale or Exchange commits. Best effort:
// a sink failure is logged and never rolls back the fulfillment.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}
