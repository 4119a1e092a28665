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
	"github.com/swarnpos/jewelpos-api/internal/domain/pricing"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
	"github.com/swarnpos/jewelpos-api/internal/domain/tag"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

// SaleUseCase runs the sale and return fulfillment events: FIFO allocation,
// rate-based pricing, unit transitions, counters, ledger and finance writes in
// one transaction, notification after commit.
type SaleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	partyRepo   repository.PartyRepository
	orderRepo   repository.OrderRepository
	taxRates    pricing.TaxRates
	notifier    NotificationSink
	log         *logger.Logger
}

// NewSaleUseCase builds the use case.
func NewSaleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	partyRepo repository.PartyRepository,
	orderRepo repository.OrderRepository,
	taxRates pricing.TaxRates,
	notifier NotificationSink,
	log *logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		partyRepo:   partyRepo,
		orderRepo:   orderRepo,
		taxRates:    taxRates,
		notifier:    notifier,
		log:         log,
	}
}

// Sell fulfills a sale: validates, then in one transaction allocates units
// FIFO, prices every line at current rates, commits the sale across registry,
// counters, ledger, order and finance. Any pre-commit failure rolls back
// everything; the notification sink is informed only after commit.
func (uc *SaleUseCase) Sell(ctx context.Context, in dto.SaleRequest) (*dto.SaleResponse, error) {
	// Validate outside the transaction (read-only)
	if in.CustomerID == "" || len(in.Lines) == 0 || in.PaymentMethod == "" {
		return nil, domain.ErrValidation
	}
	customer, err := uc.partyRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Kind != entity.PartyCustomer {
		return nil, domain.ErrNotFound
	}
	products := make(map[string]*entity.Product, len(in.Lines))
	for _, line := range in.Lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrValidation
		}
		p, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		products[line.ProductID] = p
	}

	now := time.Now()
	orderID := uuid.New().String()
	var resp *dto.SaleResponse

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		seq, err := r.Orders.NextInvoiceSequence(now)
		if err != nil {
			return err
		}
		invoiceNumber := tag.InvoiceNumber(now, seq)

		var subtotal decimal.Decimal
		lineResps := make([]dto.SaleLineResponse, 0, len(in.Lines))
		orderLines := make([]*entity.OrderLine, 0, len(in.Lines))

		for _, line := range in.Lines {
			product := products[line.ProductID]

			units, err := allocateUnits(r, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			breakdown, err := priceProduct(r, product)
			if err != nil {
				return err
			}
			unitPrice := breakdown.FinalPrice
			lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

			if err := sellAllocatedUnits(r, units, orderID, unitPrice, now); err != nil {
				return err
			}
			if err := appendSaleLedger(r, line.ProductID, units, unitPrice, orderID, now); err != nil {
				return err
			}

			subtotal = subtotal.Add(lineTotal)
			unitIDs := make([]string, len(units))
			unitTags := make([]string, len(units))
			for i, u := range units {
				unitIDs[i] = u.ID
				unitTags[i] = u.TagNumber
			}
			orderLines = append(orderLines, &entity.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				LineTotal: lineTotal,
				UnitIDs:   unitIDs,
			})
			lineResps = append(lineResps, dto.SaleLineResponse{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
				LineTotal: lineTotal,
				UnitIDs:   unitIDs,
				UnitTags:  unitTags,
			})
		}

		tax := uc.taxRates.ComputeTax(subtotal, in.InterState)

		order := &entity.Order{
			ID:            orderID,
			InvoiceNumber: invoiceNumber,
			CustomerID:    in.CustomerID,
			Date:          now,
			PaymentMethod: in.PaymentMethod,
			InterState:    in.InterState,
			Subtotal:      subtotal,
			CGST:          tax.CGST,
			SGST:          tax.SGST,
			IGST:          tax.IGST,
			GrandTotal:    tax.GrandTotal,
			Status:        entity.OrderCompleted,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Orders.Create(order); err != nil {
			return err
		}
		for _, ol := range orderLines {
			if err := r.Orders.CreateLine(ol); err != nil {
				return err
			}
		}

		record := &entity.FinanceRecord{
			ID:            uuid.New().String(),
			Amount:        tax.GrandTotal,
			Type:          entity.FinanceIncome,
			Category:      "sale",
			ReferenceID:   orderID,
			PaymentMethod: in.PaymentMethod,
			Description:   fmt.Sprintf("Sale %s to %s", invoiceNumber, customer.DisplayName),
			CreatedAt:     now,
		}
		if err := r.Finance.Create(record); err != nil {
			return err
		}

		resp = &dto.SaleResponse{
			OrderID:       orderID,
			InvoiceNumber: invoiceNumber,
			Subtotal:      subtotal,
			CGST:          tax.CGST,
			SGST:          tax.SGST,
			IGST:          tax.IGST,
			GrandTotal:    tax.GrandTotal,
			Lines:         lineResps,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, Notification{
		EventType:     "sale",
		ReferenceID:   orderID,
		InvoiceNumber: resp.InvoiceNumber,
		Amount:        resp.GrandTotal,
		OccurredAt:    now,
	})

	return resp, nil
}

// Return reverses a committed order: SOLD units walk back through RETURNED
// (and to AVAILABLE when restocking), counters follow, the ledger gets RETURN
// entries and finance an expense record for the refund.
func (uc *SaleUseCase) Return(ctx context.Context, in dto.ReturnRequest) (*dto.ReturnResponse, error) {
	if in.OrderID == "" || in.Reason == "" {
		return nil, domain.ErrValidation
	}
	order, err := uc.orderRepo.GetByID(in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.Status == entity.OrderReturned {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	var resp *dto.ReturnResponse

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		units, err := r.Units.GetByOrderID(in.OrderID)
		if err != nil {
			return err
		}
		var refund decimal.Decimal
		returned := 0
		for _, u := range units {
			if u.Status != entity.UnitSold {
				continue
			}
			refund = refund.Add(u.SalePrice)
			if err := restockUnit(r, u, in.Restock, in.NewUnitCost, now); err != nil {
				return err
			}
			entry := &entity.LedgerEntry{
				ID:           uuid.New().String(),
				ProductID:    u.ProductID,
				SourceID:     u.SourceID,
				MovementType: entity.MovementReturn,
				Quantity:     decimal.NewFromInt(1),
				UnitPrice:    u.SalePrice,
				Total:        u.SalePrice,
				ReferenceID:  in.OrderID,
				CreatedAt:    now,
			}
			if err := r.Ledger.Append(entry); err != nil {
				return err
			}
			returned++
		}
		if returned == 0 {
			return domain.ErrConflict
		}

		if err := r.Orders.UpdateStatus(in.OrderID, entity.OrderReturned); err != nil {
			return err
		}

		// The customer paid GST on top of the goods value, so the refund
		// re-adds tax on the returned value under the order's original
		// inter-state regime. A full return refunds exactly what was paid.
		refundTax := uc.taxRates.ComputeTax(refund, order.InterState)

		record := &entity.FinanceRecord{
			ID:            uuid.New().String(),
			Amount:        refundTax.GrandTotal,
			Type:          entity.FinanceExpense,
			Category:      "refund",
			ReferenceID:   in.OrderID,
			PaymentMethod: order.PaymentMethod,
			Description:   fmt.Sprintf("Refund for invoice %s: %s", order.InvoiceNumber, in.Reason),
			CreatedAt:     now,
		}
		if err := r.Finance.Create(record); err != nil {
			return err
		}

		resp = &dto.ReturnResponse{
			OrderID:      in.OrderID,
			ReturnedQty:  returned,
			RefundAmount: refundTax.GrandTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// notify delivers a post-commit notification. Best effort: a failing sink is
// logged and never affects the committed event.
func (uc *SaleUseCase) notify(ctx context.Context, n Notification) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, n); err != nil && uc.log != nil {
		uc.log.Warn().Err(err).
			Str("event", n.EventType).
			Str("reference_id", n.ReferenceID).
			Msg("notification sink failed")
	}
}
