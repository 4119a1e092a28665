package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metal types handled by the pricing engine.
const (
	MetalGold     = "GOLD"
	MetalSilver   = "SILVER"
	MetalPlatinum = "PLATINUM"
)

// Product represents a catalog item (design/model) sold by the store.
// Individual pieces are tracked as StockUnit; Product carries the attributes
// the pricing engine needs: metal, purity, net weight and stone value.
type Product struct {
	ID          string
	Code        int // short numeric code, embedded in unit barcodes
	SKU         string
	Name        string
	MetalType   string          // GOLD, SILVER, PLATINUM
	Purity      string          // e.g. "22K", "18K", "916", "925"
	WeightGrams decimal.Decimal // net metal weight per piece
	StoneValue  decimal.Decimal // fixed stone component added after metal pricing
	WastagePct  decimal.Decimal // production-loss surcharge, percent of metal value
	MakingPct   decimal.Decimal // fabrication fee, percent of metal+wastage
	TagNumber   string          // catalog-level tag prefix reference
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
