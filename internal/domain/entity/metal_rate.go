package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MetalRate is the per-gram market rate for a (metal, purity) pair.
// The latest EffectiveAt row wins; history is kept for audit.
type MetalRate struct {
	ID          string
	MetalType   string
	Purity      string
	RatePerGram decimal.Decimal
	EffectiveAt time.Time
	CreatedAt   time.Time
}
