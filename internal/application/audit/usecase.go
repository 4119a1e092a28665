package audit

import (
	"context"

	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

// UseCase cross-checks the aggregate counters against the unit registry. It
// only reads: discrepancies are reported, never repaired automatically.
type UseCase struct {
	aggRepo  repository.AggregateRepository
	unitRepo repository.UnitRepository
	log      *logger.Logger
}

func NewUseCase(aggRepo repository.AggregateRepository, unitRepo repository.UnitRepository, log *logger.Logger) *UseCase {
	return &UseCase{aggRepo: aggRepo, unitRepo: unitRepo, log: log}
}

// Run walks the union of counter rows and unit registry sources and compares
// available/reserved/sold on each side. A source present in one side only
// still gets checked: the missing side counts as zero.
func (uc *UseCase) Run(ctx context.Context) (*dto.AuditReport, error) {
	aggs, err := uc.aggRepo.ListAll()
	if err != nil {
		return nil, err
	}
	sources, err := uc.unitRepo.Sources()
	if err != nil {
		return nil, err
	}

	byKey := make(map[repository.SourceKey]*entity.StockAggregate, len(aggs))
	for _, agg := range aggs {
		byKey[repository.SourceKey{ProductID: agg.ProductID, SourceID: agg.SourceID}] = agg
	}
	seen := make(map[repository.SourceKey]bool, len(aggs)+len(sources))
	keys := make([]repository.SourceKey, 0, len(aggs)+len(sources))
	for key := range byKey {
		seen[key] = true
		keys = append(keys, key)
	}
	for _, key := range sources {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	report := &dto.AuditReport{Discrepancies: []dto.Discrepancy{}}
	for _, key := range keys {
		counts, err := uc.unitRepo.CountByStatus(key.ProductID, key.SourceID)
		if err != nil {
			return nil, err
		}
		agg := byKey[key]
		if agg == nil {
			agg = &entity.StockAggregate{ProductID: key.ProductID, SourceID: key.SourceID}
		}
		report.CheckedSources++
		uc.compare(report, key, "available", agg.Available, counts[entity.UnitAvailable])
		uc.compare(report, key, "reserved", agg.Reserved, counts[entity.UnitReserved])
		uc.compare(report, key, "sold", agg.Sold, counts[entity.UnitSold])
	}

	if len(report.Discrepancies) > 0 {
		uc.log.Warn().
			Int("checked_sources", report.CheckedSources).
			Int("discrepancies", len(report.Discrepancies)).
			Msg("stock audit found divergence between counters and unit registry")
	} else {
		uc.log.Info().
			Int("checked_sources", report.CheckedSources).
			Msg("stock audit clean")
	}
	return report, nil
}

func (uc *UseCase) compare(report *dto.AuditReport, key repository.SourceKey, field string, aggCount, unitCount int) {
	if aggCount == unitCount {
		return
	}
	report.Discrepancies = append(report.Discrepancies, dto.Discrepancy{
		ProductID: key.ProductID,
		SourceID:  key.SourceID,
		Field:     field,
		Aggregate: aggCount,
		Units:     unitCount,
	})
}
