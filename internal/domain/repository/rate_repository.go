package repository

import "github.com/swarnpos/jewelpos-api/internal/domain/entity"

// RateRepository stores per-gram metal rates. GetLatest returns nil when no
// rate is registered for the pair; callers map that to ErrRateNotFound.
type RateRepository interface {
	GetLatest(metalType, purity string) (*entity.MetalRate, error)
	Create(rate *entity.MetalRate) error
	ListCurrent() ([]*entity.MetalRate, error)
}
