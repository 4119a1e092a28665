package fulfillment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
)

func newAdjustmentFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture()
	f.addProduct("prod-1", 42, entity.MetalGold, "22K", "10", "0", "0", "0")
	return f
}

func TestAdjust_PositiveRegistersFoundStock(t *testing.T) {
	f := newAdjustmentFixture(t)
	cost := dec("900")

	resp, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  2,
		Reason:    "stock count surplus",
		UnitCost:  &cost,
	})
	require.NoError(t, err)

	// Units registered under the adjustment as their own source
	units := f.unitsByStatus("prod-1", entity.UnitAvailable)
	require.Len(t, units, 2)
	for _, u := range units {
		assert.Equal(t, resp.AdjustmentID, u.SourceID)
		assert.Equal(t, "900", u.Cost.String())
	}
	agg := f.agg("prod-1", resp.AdjustmentID)
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.Available)

	// Ledger entry carries the mandatory reason
	entries := f.ledgerByType("prod-1", entity.MovementAdjustment)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].Quantity.String())
	assert.Equal(t, "stock count surplus", entries[0].Notes)

	// Adjustments have no finance impact
	assert.Empty(t, f.store.finance)
}

func TestAdjust_NegativeWritesOffOldestUnits(t *testing.T) {
	f := newAdjustmentFixture(t)
	f.seedStock("prod-1", "rcpt-1", 5, "1000")

	_, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  -2,
		Reason:    "damaged in display",
	})
	require.NoError(t, err)

	assert.Len(t, f.unitsByStatus("prod-1", entity.UnitWrittenOff), 2)
	assert.Len(t, f.unitsByStatus("prod-1", entity.UnitAvailable), 3)
	agg := f.agg("prod-1", "rcpt-1")
	assert.Equal(t, 3, agg.Available)
	// Written-off units leave the counters entirely
	assert.Equal(t, 3, agg.Total())

	entries := f.ledgerByType("prod-1", entity.MovementAdjustment)
	require.Len(t, entries, 1)
	assert.Equal(t, "-2", entries[0].Quantity.String())
	assert.Equal(t, "damaged in display", entries[0].Notes)
	assert.Empty(t, f.store.finance)
}

func TestAdjust_NegativeLedgersEachSourceAtItsOwnCost(t *testing.T) {
	f := newAdjustmentFixture(t)
	f.seedStock("prod-1", "rcpt-cheap", 1, "1000")
	f.seedStock("prod-1", "rcpt-dear", 1, "9000")

	_, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  -2,
		Reason:    "melted for rework",
	})
	require.NoError(t, err)

	entries := f.ledgerByType("prod-1", entity.MovementAdjustment)
	require.Len(t, entries, 2)
	bySource := map[string]*entity.LedgerEntry{}
	for _, e := range entries {
		bySource[e.SourceID] = e
	}
	require.Contains(t, bySource, "rcpt-cheap")
	require.Contains(t, bySource, "rcpt-dear")
	assert.Equal(t, "1000", bySource["rcpt-cheap"].UnitPrice.String())
	assert.Equal(t, "-1000", bySource["rcpt-cheap"].Total.String())
	assert.Equal(t, "9000", bySource["rcpt-dear"].UnitPrice.String())
	assert.Equal(t, "-9000", bySource["rcpt-dear"].Total.String())
}

func TestAdjust_NegativeBeyondStockRollsBack(t *testing.T) {
	f := newAdjustmentFixture(t)
	f.seedStock("prod-1", "rcpt-1", 1, "1000")

	_, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  -3,
		Reason:    "theft",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, f.unitsByStatus("prod-1", entity.UnitAvailable), 1)
	assert.Empty(t, f.unitsByStatus("prod-1", entity.UnitWrittenOff))
	assert.Empty(t, f.store.ledger)
}

func TestAdjust_ReasonIsMandatory(t *testing.T) {
	f := newAdjustmentFixture(t)
	f.seedStock("prod-1", "rcpt-1", 5, "1000")

	_, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  -1,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdjust_PositiveRequiresUnitCost(t *testing.T) {
	f := newAdjustmentFixture(t)

	_, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  2,
		Reason:    "stock count surplus",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdjust_ZeroQuantityRejected(t *testing.T) {
	f := newAdjustmentFixture(t)
	cost := decimal.NewFromInt(900)

	_, err := f.adjustment.Adjust(context.Background(), dto.AdjustmentRequest{
		ProductID: "prod-1",
		Quantity:  0,
		Reason:    "noop",
		UnitCost:  &cost,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestTransfer_WritesPairedLedgerEntries(t *testing.T) {
	f := newAdjustmentFixture(t)
	f.seedStock("prod-1", "rcpt-1", 5, "1000")

	resp, err := f.adjustment.Transfer(context.Background(), dto.TransferRequest{
		ProductID:    "prod-1",
		Quantity:     3,
		FromLocation: "main-counter",
		ToLocation:   "vault",
	})
	require.NoError(t, err)

	entries, err := (&memLedgerRepo{s: f.store}).ListByReference(resp.TransferID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var out, in *entity.LedgerEntry
	for _, e := range entries {
		switch e.MovementType {
		case entity.MovementTransferOut:
			out = e
		case entity.MovementTransferIn:
			in = e
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, "main-counter", out.SourceID)
	assert.Equal(t, "-3", out.Quantity.String())
	assert.Equal(t, "vault", in.SourceID)
	assert.Equal(t, "3", in.Quantity.String())
	// The pair nets to zero
	assert.True(t, out.Quantity.Add(in.Quantity).IsZero())

	// No unit, counter or finance impact
	assert.Len(t, f.unitsByStatus("prod-1", entity.UnitAvailable), 5)
	assert.Equal(t, 5, f.agg("prod-1", "rcpt-1").Available)
	assert.Empty(t, f.store.finance)
}

func TestTransfer_SameLocationRejected(t *testing.T) {
	f := newAdjustmentFixture(t)

	_, err := f.adjustment.Transfer(context.Background(), dto.TransferRequest{
		ProductID:    "prod-1",
		Quantity:     1,
		FromLocation: "vault",
		ToLocation:   "vault",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}
