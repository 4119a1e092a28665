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

// PurchaseUseCase creates purchase orders and fulfills goods receipts against
// them: unit registration, counters, ledger, finance and PO status advance in
// one transaction.
type PurchaseUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	partyRepo   repository.PartyRepository
	poRepo      repository.PurchaseOrderRepository
	tagGen      *tag.Generator
}

// NewPurchaseUseCase builds the use case.
func NewPurchaseUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	partyRepo repository.PartyRepository,
	poRepo repository.PurchaseOrderRepository,
	tagGen *tag.Generator,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		partyRepo:   partyRepo,
		poRepo:      poRepo,
		tagGen:      tagGen,
	}
}

// CreatePO registers a new PENDING purchase order with its items.
func (uc *PurchaseUseCase) CreatePO(ctx context.Context, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrValidation
	}
	supplier, err := uc.partyRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.Kind != entity.PartySupplier {
		return nil, domain.ErrNotFound
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 || item.UnitCost.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrValidation
		}
		p, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Status:     entity.POPending,
		OrderedAt:  now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, item := range in.Items {
		po.Items = append(po.Items, entity.PurchaseOrderItem{
			ID:         uuid.New().String(),
			POID:       po.ID,
			ProductID:  item.ProductID,
			OrderedQty: item.Quantity,
			UnitCost:   item.UnitCost,
			Status:     entity.POPending,
		})
	}

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		return r.Purchases.Create(po)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// GetPO returns a purchase order with delivery progress.
func (uc *PurchaseUseCase) GetPO(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toPOResponse(po), nil
}

// Receive fulfills a goods receipt against a purchase order item. Received
// quantity must be positive and cannot exceed the outstanding quantity. The
// registered units, counter row, PURCHASE ledger entry, expense finance record
// and PO status all commit together.
func (uc *PurchaseUseCase) Receive(ctx context.Context, in dto.PurchaseReceiptRequest) (*dto.PurchaseReceiptResponse, error) {
	if in.POID == "" || in.ProductID == "" || in.ReceivedQty <= 0 {
		return nil, domain.ErrValidation
	}
	po, err := uc.poRepo.GetByID(in.POID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.partyRepo.GetByID(po.SupplierID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	receiptID := uuid.New().String() // source id for the registered units
	var resp *dto.PurchaseReceiptResponse

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Lock the PO item so concurrent receipts cannot both consume the
		// same outstanding quantity
		item, err := r.Purchases.GetItemForUpdate(in.POID, in.ProductID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.ReceivedQty > item.Outstanding() {
			return fmt.Errorf("received %d exceeds outstanding %d: %w",
				in.ReceivedQty, item.Outstanding(), domain.ErrValidation)
		}

		units, err := registerUnits(r, uc.tagGen, product, receiptID, in.ReceivedQty, item.UnitCost, now)
		if err != nil {
			return err
		}

		agg := &entity.StockAggregate{
			ProductID: in.ProductID,
			SourceID:  receiptID,
			Available: in.ReceivedQty,
			UnitCost:  item.UnitCost,
			UpdatedAt: now,
		}
		if err := r.Aggregates.Upsert(agg); err != nil {
			return err
		}

		qty := decimal.NewFromInt(int64(in.ReceivedQty))
		entry := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    in.ProductID,
			SourceID:     receiptID,
			MovementType: entity.MovementPurchase,
			Quantity:     qty,
			UnitPrice:    item.UnitCost,
			Total:        qty.Mul(item.UnitCost),
			ReferenceID:  receiptID,
			CreatedAt:    now,
		}
		if err := r.Ledger.Append(entry); err != nil {
			return err
		}

		supplierName := po.SupplierID
		if supplier != nil {
			supplierName = supplier.DisplayName
		}
		record := &entity.FinanceRecord{
			ID:          uuid.New().String(),
			Amount:      qty.Mul(item.UnitCost),
			Type:        entity.FinanceExpense,
			Category:    "purchase",
			ReferenceID: receiptID,
			Description: fmt.Sprintf("Goods receipt of %d units from %s (PO %s)", in.ReceivedQty, supplierName, in.POID),
			CreatedAt:   now,
		}
		if err := r.Finance.Create(record); err != nil {
			return err
		}

		// Advance item status, then recompute the header status
		item.ReceivedQty += in.ReceivedQty
		if item.Outstanding() == 0 {
			item.Status = entity.PODelivered
		} else {
			item.Status = entity.POPartiallyDelivered
		}
		if err := r.Purchases.UpdateItem(item); err != nil {
			return err
		}

		current, err := r.Purchases.GetByID(in.POID)
		if err != nil {
			return err
		}
		poStatus := headerStatus(current.Items)
		if err := r.Purchases.UpdateStatus(in.POID, poStatus); err != nil {
			return err
		}

		unitIDs := make([]string, len(units))
		unitTags := make([]string, len(units))
		for i, u := range units {
			unitIDs[i] = u.ID
			unitTags[i] = u.TagNumber
		}
		resp = &dto.PurchaseReceiptResponse{
			ReceiptID:  receiptID,
			POStatus:   poStatus,
			ItemStatus: item.Status,
			UnitIDs:    unitIDs,
			UnitTags:   unitTags,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// headerStatus derives the PO header status from its items.
func headerStatus(items []entity.PurchaseOrderItem) string {
	delivered, touched := 0, 0
	for _, it := range items {
		if it.ReceivedQty > 0 {
			touched++
		}
		if it.Status == entity.PODelivered {
			delivered++
		}
	}
	switch {
	case delivered == len(items):
		return entity.PODelivered
	case touched > 0:
		return entity.POPartiallyDelivered
	default:
		return entity.POPending
	}
}

func toPOResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:         po.ID,
		SupplierID: po.SupplierID,
		Status:     po.Status,
	}
	for _, it := range po.Items {
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ProductID:   it.ProductID,
			OrderedQty:  it.OrderedQty,
			ReceivedQty: it.ReceivedQty,
			UnitCost:    it.UnitCost,
			Status:      it.Status,
		})
	}
	return resp
}
