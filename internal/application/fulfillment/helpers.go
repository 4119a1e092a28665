package fulfillment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/pricing"
	"github.com/swarnpos/jewelpos-api/internal/domain/tag"
)

// registerRetries bounds tag/barcode collision retries when creating units.
const registerRetries = 5

// latestRate resolves the current per-gram rate for a product or fails with
// ErrRateNotFound.
func latestRate(r TxRepos, product *entity.Product) (decimal.Decimal, error) {
	rate, err := r.Rates.GetLatest(product.MetalType, product.Purity)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, domain.ErrRateNotFound
	}
	return rate.RatePerGram, nil
}

// priceProduct prices one piece of a product at the current rate.
func priceProduct(r TxRepos, product *entity.Product) (pricing.LineBreakdown, error) {
	rate, err := latestRate(r, product)
	if err != nil {
		return pricing.LineBreakdown{}, err
	}
	in := pricing.LineInput{
		WeightGrams: product.WeightGrams,
		WastagePct:  product.WastagePct,
		MakingPct:   product.MakingPct,
		StoneValue:  product.StoneValue,
	}
	return pricing.PriceLine(in, rate), nil
}

// allocateUnits locks qty AVAILABLE units FIFO, or aborts with
// ErrInsufficientStock without any write (no partial allocation).
func allocateUnits(r TxRepos, productID string, qty int) ([]*entity.StockUnit, error) {
	units, err := r.Units.AllocateOldest(productID, qty)
	if err != nil {
		return nil, err
	}
	if len(units) < qty {
		return nil, domain.ErrInsufficientStock
	}
	return units, nil
}

// sellAllocatedUnits walks each locked unit through RESERVED to SOLD, stamps
// the consuming order, and moves the per-source counters in lockstep.
func sellAllocatedUnits(r TxRepos, units []*entity.StockUnit, orderID string, salePrice decimal.Decimal, now time.Time) error {
	for _, u := range units {
		if !u.CanTransition(entity.UnitReserved) {
			return fmt.Errorf("unit %s in status %s: %w", u.ID, u.Status, domain.ErrInvalidTransition)
		}
		u.Status = entity.UnitReserved
		if !u.CanTransition(entity.UnitSold) {
			return fmt.Errorf("unit %s: %w", u.ID, domain.ErrInvalidTransition)
		}
		u.Status = entity.UnitSold
		u.OrderID = orderID
		t := now
		u.ConsumedAt = &t
		u.SalePrice = salePrice
		u.UpdatedAt = now
		if err := r.Units.UpdateStatus(u); err != nil {
			return err
		}
	}

	for sourceID, n := range countBySource(units) {
		agg, err := r.Aggregates.GetForUpdate(units[0].ProductID, sourceID)
		if err != nil {
			return err
		}
		if agg == nil || agg.Available < n {
			return fmt.Errorf("aggregate %s/%s out of sync with registry: %w",
				units[0].ProductID, sourceID, domain.ErrConflict)
		}
		agg.Available -= n
		agg.Sold += n
		agg.UpdatedAt = now
		if err := r.Aggregates.Upsert(agg); err != nil {
			return err
		}
	}
	return nil
}

// appendSaleLedger writes one SALE entry per source the allocation drew from.
func appendSaleLedger(r TxRepos, productID string, units []*entity.StockUnit, unitPrice decimal.Decimal, referenceID string, now time.Time) error {
	for sourceID, n := range countBySource(units) {
		qty := decimal.NewFromInt(int64(n))
		entry := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    productID,
			SourceID:     sourceID,
			MovementType: entity.MovementSale,
			Quantity:     qty.Neg(),
			UnitPrice:    unitPrice,
			Total:        qty.Neg().Mul(unitPrice),
			ReferenceID:  referenceID,
			CreatedAt:    now,
		}
		if err := r.Ledger.Append(entry); err != nil {
			return err
		}
	}
	return nil
}

// countBySource groups locked units by their source receipt.
func countBySource(units []*entity.StockUnit) map[string]int {
	counts := make(map[string]int, 1)
	for _, u := range units {
		counts[u.SourceID]++
	}
	return counts
}

// registerUnits creates count fresh AVAILABLE units for a product under one
// source receipt, regenerating identifiers on unique-constraint collisions.
func registerUnits(r TxRepos, gen *tag.Generator, product *entity.Product, sourceID string, count int, unitCost decimal.Decimal, now time.Time) ([]*entity.StockUnit, error) {
	units := make([]*entity.StockUnit, 0, count)
	for i := 0; i < count; i++ {
		unit := &entity.StockUnit{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			SourceID:  sourceID,
			Cost:      unitCost,
			Status:    entity.UnitAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		}
		var err error
		for attempt := 0; attempt < registerRetries; attempt++ {
			unit.TagNumber = gen.NextUnitTag(product.MetalType, now)
			unit.Barcode = gen.NextBarcode(product.Code, now)
			err = r.Units.Create(unit)
			if err == nil || !errors.Is(err, domain.ErrDuplicate) {
				break
			}
		}
		if err != nil {
			return nil, fmt.Errorf("register unit %d/%d: %w", i+1, count, err)
		}
		units = append(units, unit)
	}
	return units, nil
}

// restockUnit walks one SOLD unit back through RETURNED and, when restock is
// set, to AVAILABLE with an optional new cost basis; counters follow.
func restockUnit(r TxRepos, u *entity.StockUnit, restock bool, newCost *decimal.Decimal, now time.Time) error {
	if !u.CanTransition(entity.UnitReturned) {
		return fmt.Errorf("unit %s in status %s: %w", u.ID, u.Status, domain.ErrInvalidTransition)
	}
	u.Status = entity.UnitReturned
	if restock {
		u.Status = entity.UnitAvailable
		if newCost != nil {
			u.Cost = *newCost
		}
	}
	u.OrderID = ""
	u.ConsumedAt = nil
	u.UpdatedAt = now
	if err := r.Units.UpdateStatus(u); err != nil {
		return err
	}

	agg, err := r.Aggregates.GetForUpdate(u.ProductID, u.SourceID)
	if err != nil {
		return err
	}
	if agg == nil || agg.Sold < 1 {
		return fmt.Errorf("aggregate %s/%s out of sync with registry: %w", u.ProductID, u.SourceID, domain.ErrConflict)
	}
	agg.Sold--
	if restock {
		agg.Available++
		// Keep the counter row's cost in step with the unit registry when
		// the piece re-enters stock on a new basis.
		if newCost != nil {
			agg.UnitCost = *newCost
		}
	}
	agg.UpdatedAt = now
	return r.Aggregates.Upsert(agg)
}
