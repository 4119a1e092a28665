package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

// RateUseCase manages the metal rate feed the pricing engine reads from.
type RateUseCase struct {
	rateRepo repository.RateRepository
}

// NewRateUseCase builds the use case.
func NewRateUseCase(rateRepo repository.RateRepository) *RateUseCase {
	return &RateUseCase{rateRepo: rateRepo}
}

// SetRate registers a new rate for a (metal, purity) pair. History is kept;
// the latest effective rate wins at pricing time.
func (uc *RateUseCase) SetRate(ctx context.Context, in dto.RateRequest) (*entity.MetalRate, error) {
	if in.MetalType == "" || in.Purity == "" || in.RatePerGram.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	rate := &entity.MetalRate{
		ID:          uuid.New().String(),
		MetalType:   in.MetalType,
		Purity:      in.Purity,
		RatePerGram: in.RatePerGram,
		EffectiveAt: now,
		CreatedAt:   now,
	}
	if err := uc.rateRepo.Create(rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// CurrentRates lists the latest rate per (metal, purity) pair.
func (uc *RateUseCase) CurrentRates(ctx context.Context) ([]*entity.MetalRate, error) {
	return uc.rateRepo.ListCurrent()
}
