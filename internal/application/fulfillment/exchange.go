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
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

// ExchangeUseCase runs the exchange event: a sale-like "in" leg for the new
// piece and a purchase-like "out" leg for the returned piece, settled as one
// net balance and committed as one transaction.
type ExchangeUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	partyRepo   repository.PartyRepository
	unitRepo    repository.UnitRepository
	taxRates    pricing.TaxRates
	notifier    NotificationSink
	log         *logger.Logger
}

// NewExchangeUseCase builds the use case.
func NewExchangeUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	partyRepo repository.PartyRepository,
	unitRepo repository.UnitRepository,
	taxRates pricing.TaxRates,
	notifier NotificationSink,
	log *logger.Logger,
) *ExchangeUseCase {
	return &ExchangeUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		partyRepo:   partyRepo,
		unitRepo:    unitRepo,
		taxRates:    taxRates,
		notifier:    notifier,
		log:         log,
	}
}

// Exchange swaps a previously sold piece (identified by tag) for a new one.
// Both legs are priced at current rates; the net balance (newValue −
// returnValue) is taxed only when positive. Both legs commit together or not
// at all.
func (uc *ExchangeUseCase) Exchange(ctx context.Context, in dto.ExchangeRequest) (*dto.ExchangeResponse, error) {
	if in.CustomerID == "" || in.ReturnedUnitTag == "" || in.NewProductID == "" || in.PaymentMethod == "" {
		return nil, domain.ErrValidation
	}
	customer, err := uc.partyRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Kind != entity.PartyCustomer {
		return nil, domain.ErrNotFound
	}
	newProduct, err := uc.productRepo.GetByID(in.NewProductID)
	if err != nil {
		return nil, err
	}
	if newProduct == nil {
		return nil, domain.ErrNotFound
	}
	returnedPreview, err := uc.unitRepo.GetByTag(in.ReturnedUnitTag)
	if err != nil {
		return nil, err
	}
	if returnedPreview == nil {
		return nil, domain.ErrNotFound
	}
	oldProduct, err := uc.productRepo.GetByID(returnedPreview.ProductID)
	if err != nil {
		return nil, err
	}
	if oldProduct == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	exchangeID := uuid.New().String()
	var resp *dto.ExchangeResponse

	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		// Re-read the returned unit inside the transaction; the preview read
		// ran without a lock
		returned, err := r.Units.GetByTag(in.ReturnedUnitTag)
		if err != nil {
			return err
		}
		if returned == nil {
			return domain.ErrNotFound
		}
		if returned.Status != entity.UnitSold {
			return fmt.Errorf("unit %s in status %s cannot be exchanged: %w",
				returned.TagNumber, returned.Status, domain.ErrConflict)
		}

		// In leg: sell one new piece
		units, err := allocateUnits(r, in.NewProductID, 1)
		if err != nil {
			return err
		}
		newBreakdown, err := priceProduct(r, newProduct)
		if err != nil {
			return err
		}
		newValue := newBreakdown.FinalPrice
		if err := sellAllocatedUnits(r, units, exchangeID, newValue, now); err != nil {
			return err
		}
		if err := appendSaleLedger(r, in.NewProductID, units, newValue, exchangeID, now); err != nil {
			return err
		}

		// Out leg: take the returned piece back at its current metal value
		oldBreakdown, err := priceProduct(r, oldProduct)
		if err != nil {
			return err
		}
		returnValue := oldBreakdown.FinalPrice
		if err := restockUnit(r, returned, true, &returnValue, now); err != nil {
			return err
		}
		entry := &entity.LedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    returned.ProductID,
			SourceID:     returned.SourceID,
			MovementType: entity.MovementExchange,
			Quantity:     decimal.NewFromInt(1),
			UnitPrice:    returnValue,
			Total:        returnValue,
			ReferenceID:  exchangeID,
			CreatedAt:    now,
		}
		if err := r.Ledger.Append(entry); err != nil {
			return err
		}

		// Settle the net balance; tax applies only when the customer pays
		net := newValue.Sub(returnValue)
		var tax pricing.TaxBreakdown
		if net.IsPositive() {
			tax = uc.taxRates.ComputeTax(net, in.InterState)
		} else {
			tax.GrandTotal = net
		}

		if !net.IsZero() {
			recordType := entity.FinanceIncome
			amount := tax.GrandTotal
			if net.IsNegative() {
				recordType = entity.FinanceExpense
				amount = net.Abs()
			}
			record := &entity.FinanceRecord{
				ID:            uuid.New().String(),
				Amount:        amount,
				Type:          recordType,
				Category:      "exchange",
				ReferenceID:   exchangeID,
				PaymentMethod: in.PaymentMethod,
				Description:   fmt.Sprintf("Exchange %s for %s by %s", returned.TagNumber, units[0].TagNumber, customer.DisplayName),
				CreatedAt:     now,
			}
			if err := r.Finance.Create(record); err != nil {
				return err
			}
		}

		resp = &dto.ExchangeResponse{
			ExchangeID:  exchangeID,
			NewUnitID:   units[0].ID,
			NewValue:    newValue,
			ReturnValue: returnValue,
			NetBalance:  net,
			CGST:        tax.CGST,
			SGST:        tax.SGST,
			IGST:        tax.IGST,
			GrandTotal:  tax.GrandTotal,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.notifier != nil {
		if err := uc.notifier.Notify(ctx, Notification{
			EventType:   "exchange",
			ReferenceID: exchangeID,
			Amount:      resp.GrandTotal,
			OccurredAt:  now,
		}); err != nil && uc.log != nil {
			uc.log.Warn().Err(err).Str("reference_id", exchangeID).Msg("notification sink failed")
		}
	}

	return resp, nil
}
