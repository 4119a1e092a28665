package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
	"github.com/swarnpos/jewelpos-api/internal/domain/tag"
)

// AdjustmentUseCase runs corrective adjustments (loss, damage, recount) and
// location transfers. Adjustments move stock with a ledger entry and a
// mandatory reason but no finance record; transfers only write the paired
// ledger entries.
type AdjustmentUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	tagGen      *tag.Generator
}

// NewAdjustmentUseCase builds the use case.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	tagGen *tag.Generator,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		tagGen:      tagGen,
	}
}

// Adjust applies a signed stock correction. Positive quantities register
// found stock at the given cost; negative quantities write off the oldest
// available units. The reason is mandatory and recorded on the ledger entry.
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, in dto.AdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if in.ProductID == "" || in.Quantity == 0 || in.Reason == "" {
		return nil, domain.ErrValidation
	}
	if in.Quantity > 0 && (in.UnitCost == nil || in.UnitCost.LessThan(decimal.Zero)) {
		return nil, domain.ErrValidation
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	adjustmentID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if in.Quantity > 0 {
			return uc.adjustIn(r, product, adjustmentID, in, now)
		}
		return uc.adjustOut(r, product, adjustmentID, in, now)
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentResponse{AdjustmentID: adjustmentID, Quantity: in.Quantity}, nil
}

// adjustIn registers found stock under the adjustment as its own source.
func (uc *AdjustmentUseCase) adjustIn(r TxRepos, product *entity.Product, adjustmentID string, in dto.AdjustmentRequest, now time.Time) error {
	if _, err := registerUnits(r, uc.tagGen, product, adjustmentID, in.Quantity, *in.UnitCost, now); err != nil {
		return err
	}
	agg := &entity.StockAggregate{
		ProductID: in.ProductID,
		SourceID:  adjustmentID,
		Available: in.Quantity,
		UnitCost:  *in.UnitCost,
		UpdatedAt: now,
	}
	if err := r.Aggregates.Upsert(agg); err != nil {
		return err
	}
	qty := decimal.NewFromInt(int64(in.Quantity))
	return r.Ledger.Append(&entity.LedgerEntry{
		ID:           uuid.New().String(),
		ProductID:    in.ProductID,
		SourceID:     adjustmentID,
		MovementType: entity.MovementAdjustment,
		Quantity:     qty,
		UnitPrice:    *in.UnitCost,
		Total:        qty.Mul(*in.UnitCost),
		ReferenceID:  adjustmentID,
		Notes:        in.Reason,
		CreatedAt:    now,
	})
}

// adjustOut writes off the oldest available units (loss/damage).
func (uc *AdjustmentUseCase) adjustOut(r TxRepos, product *entity.Product, adjustmentID string, in dto.AdjustmentRequest, now time.Time) error {
	count := -in.Quantity
	units, err := allocateUnits(r, in.ProductID, count)
	if err != nil {
		return err
	}
	for _, u := range units {
		if !u.CanTransition(entity.UnitWrittenOff) {
			return fmt.Errorf("unit %s in status %s: %w", u.ID, u.Status, domain.ErrInvalidTransition)
		}
		u.Status = entity.UnitWrittenOff
		u.UpdatedAt = now
		if err := r.Units.UpdateStatus(u); err != nil {
			return err
		}
	}

	for sourceID, n := range countBySource(units) {
		agg, err := r.Aggregates.GetForUpdate(in.ProductID, sourceID)
		if err != nil {
			return err
		}
		if agg == nil || agg.Available < n {
			return fmt.Errorf("aggregate %s/%s out of sync with registry: %w", in.ProductID, sourceID, domain.ErrConflict)
		}
		agg.Available -= n
		agg.UpdatedAt = now
		if err := r.Aggregates.Upsert(agg); err != nil {
			return err
		}

		// Each source carries its own acquisition cost; the write-off must
		// be ledgered at that source's cost, not the first unit drawn.
		qty := decimal.NewFromInt(int64(n))
		entry := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    in.ProductID,
			SourceID:     sourceID,
			MovementType: entity.MovementAdjustment,
			Quantity:     qty.Neg(),
			UnitPrice:    agg.UnitCost,
			Total:        qty.Neg().Mul(agg.UnitCost),
			ReferenceID:  adjustmentID,
			Notes:        in.Reason,
			CreatedAt:    now,
		}
		if err := r.Ledger.Append(entry); err != nil {
			return err
		}
	}
	return nil
}

// Transfer records a stock movement between locations as a TRANSFER_OUT /
// TRANSFER_IN pair sharing one reference. Units keep their status; there is
// no finance impact.
func (uc *AdjustmentUseCase) Transfer(ctx context.Context, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 || in.FromLocation == "" || in.ToLocation == "" || in.FromLocation == in.ToLocation {
		return nil, domain.ErrValidation
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	transferID := uuid.New().String()
	qty := decimal.NewFromInt(int64(in.Quantity))

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Source field carries the location on transfer entries
		out := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    in.ProductID,
			SourceID:     in.FromLocation,
			MovementType: entity.MovementTransferOut,
			Quantity:     qty.Neg(),
			ReferenceID:  transferID,
			CreatedAt:    now,
		}
		if err := r.Ledger.Append(out); err != nil {
			return err
		}
		inEntry := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    in.ProductID,
			SourceID:     in.ToLocation,
			MovementType: entity.MovementTransferIn,
			Quantity:     qty,
			ReferenceID:  transferID,
			CreatedAt:    now,
		}
		return r.Ledger.Append(inEntry)
	})
	if err != nil {
		return nil, err
	}
	return &dto.TransferResponse{TransferID: transferID}, nil
}
