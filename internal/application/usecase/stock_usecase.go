package usecase

import (
	"context"
	"time"

	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

// maxUnitsPerView caps the unit list returned by GetStock; counter rows stay
// complete regardless.
const maxUnitsPerView = 500

// StockView is the per-product read model: counters per source plus the
// individually tagged units behind them.
type StockView struct {
	Product    *entity.Product          `json:"product"`
	Aggregates []*entity.StockAggregate `json:"aggregates"`
	Units      []*entity.StockUnit      `json:"units"`
}

// StockUseCase serves read-only stock and ledger queries.
type StockUseCase struct {
	productRepo repository.ProductRepository
	aggRepo     repository.AggregateRepository
	unitRepo    repository.UnitRepository
	ledgerRepo  repository.LedgerRepository
}

func NewStockUseCase(
	productRepo repository.ProductRepository,
	aggRepo repository.AggregateRepository,
	unitRepo repository.UnitRepository,
	ledgerRepo repository.LedgerRepository,
) *StockUseCase {
	return &StockUseCase{
		productRepo: productRepo,
		aggRepo:     aggRepo,
		unitRepo:    unitRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// GetStock returns the dual view of one product's inventory.
func (uc *StockUseCase) GetStock(ctx context.Context, productID string) (*StockView, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	aggs, err := uc.aggRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	units, err := uc.unitRepo.ListByProduct(productID, maxUnitsPerView, 0)
	if err != nil {
		return nil, err
	}
	return &StockView{Product: product, Aggregates: aggs, Units: units}, nil
}

// GetStockBySKU resolves a scanned SKU to its product and returns the same
// dual view as GetStock.
func (uc *StockUseCase) GetStockBySKU(ctx context.Context, sku string) (*StockView, error) {
	product, err := uc.productRepo.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.GetStock(ctx, product.ID)
}

// GetLedger returns the movement history of a product, newest first,
// optionally bounded by a time window.
func (uc *StockUseCase) GetLedger(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > maxUnitsPerView {
		limit = 100
	}
	return uc.ledgerRepo.ListByProduct(productID, from, to, limit, offset)
}
