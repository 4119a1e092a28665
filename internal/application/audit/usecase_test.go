package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

type fakeAggRepo struct {
	aggs []*entity.StockAggregate
}

func (r *fakeAggRepo) Get(productID, sourceID string) (*entity.StockAggregate, error) {
	for _, a := range r.aggs {
		if a.ProductID == productID && a.SourceID == sourceID {
			return a, nil
		}
	}
	return nil, nil
}
func (r *fakeAggRepo) GetForUpdate(productID, sourceID string) (*entity.StockAggregate, error) {
	return r.Get(productID, sourceID)
}
func (r *fakeAggRepo) Upsert(agg *entity.StockAggregate) error { return nil }
func (r *fakeAggRepo) ListByProduct(productID string) ([]*entity.StockAggregate, error) {
	return nil, nil
}
func (r *fakeAggRepo) ListAll() ([]*entity.StockAggregate, error) { return r.aggs, nil }

type fakeUnitRepo struct {
	units []*entity.StockUnit
}

func (r *fakeUnitRepo) Create(unit *entity.StockUnit) error               { return nil }
func (r *fakeUnitRepo) GetByID(id string) (*entity.StockUnit, error)      { return nil, nil }
func (r *fakeUnitRepo) GetByTag(tag string) (*entity.StockUnit, error)    { return nil, nil }
func (r *fakeUnitRepo) AllocateOldest(string, int) ([]*entity.StockUnit, error) {
	return nil, nil
}
func (r *fakeUnitRepo) GetByOrderID(string) ([]*entity.StockUnit, error) { return nil, nil }
func (r *fakeUnitRepo) UpdateStatus(*entity.StockUnit) error             { return nil }
func (r *fakeUnitRepo) CountByStatus(productID, sourceID string) (map[string]int, error) {
	counts := map[string]int{}
	for _, u := range r.units {
		if u.ProductID == productID && u.SourceID == sourceID {
			counts[u.Status]++
		}
	}
	return counts, nil
}
func (r *fakeUnitRepo) Sources() ([]repository.SourceKey, error) {
	seen := map[repository.SourceKey]bool{}
	var out []repository.SourceKey
	for _, u := range r.units {
		key := repository.SourceKey{ProductID: u.ProductID, SourceID: u.SourceID}
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out, nil
}
func (r *fakeUnitRepo) ListByProduct(string, int, int) ([]*entity.StockUnit, error) {
	return nil, nil
}

func unitsFor(productID, sourceID string, statusCounts map[string]int) []*entity.StockUnit {
	var out []*entity.StockUnit
	for status, n := range statusCounts {
		for i := 0; i < n; i++ {
			out = append(out, &entity.StockUnit{ProductID: productID, SourceID: sourceID, Status: status})
		}
	}
	return out
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func TestRun_ConsistentStateIsClean(t *testing.T) {
	aggRepo := &fakeAggRepo{aggs: []*entity.StockAggregate{
		{ProductID: "p1", SourceID: "s1", Available: 3, Sold: 2},
		{ProductID: "p2", SourceID: "s2", Available: 1},
	}}
	unitRepo := &fakeUnitRepo{}
	unitRepo.units = append(unitRepo.units, unitsFor("p1", "s1", map[string]int{
		entity.UnitAvailable: 3,
		entity.UnitSold:      2,
	})...)
	unitRepo.units = append(unitRepo.units, unitsFor("p2", "s2", map[string]int{
		entity.UnitAvailable: 1,
	})...)

	report, err := NewUseCase(aggRepo, unitRepo, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.CheckedSources)
	assert.Empty(t, report.Discrepancies)
}

func TestRun_ReturnedAndWrittenOffUnitsDoNotCount(t *testing.T) {
	aggRepo := &fakeAggRepo{aggs: []*entity.StockAggregate{
		{ProductID: "p1", SourceID: "s1", Available: 2},
	}}
	unitRepo := &fakeUnitRepo{units: unitsFor("p1", "s1", map[string]int{
		entity.UnitAvailable:  2,
		entity.UnitReturned:   1,
		entity.UnitWrittenOff: 3,
	})}

	report, err := NewUseCase(aggRepo, unitRepo, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Discrepancies)
}

func TestRun_DetectsCounterDrift(t *testing.T) {
	aggRepo := &fakeAggRepo{aggs: []*entity.StockAggregate{
		{ProductID: "p1", SourceID: "s1", Available: 5, Sold: 1},
	}}
	unitRepo := &fakeUnitRepo{units: unitsFor("p1", "s1", map[string]int{
		entity.UnitAvailable: 4,
		entity.UnitSold:      1,
	})}

	report, err := NewUseCase(aggRepo, unitRepo, testLogger()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	d := report.Discrepancies[0]
	assert.Equal(t, "p1", d.ProductID)
	assert.Equal(t, "s1", d.SourceID)
	assert.Equal(t, "available", d.Field)
	assert.Equal(t, 5, d.Aggregate)
	assert.Equal(t, 4, d.Units)
}

func TestRun_SourceMissingCounterRowIsReported(t *testing.T) {
	aggRepo := &fakeAggRepo{}
	unitRepo := &fakeUnitRepo{units: unitsFor("p1", "orphan", map[string]int{
		entity.UnitAvailable: 2,
	})}

	report, err := NewUseCase(aggRepo, unitRepo, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.CheckedSources)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, 0, report.Discrepancies[0].Aggregate)
	assert.Equal(t, 2, report.Discrepancies[0].Units)
}

func TestRun_CounterRowWithoutUnitsIsReported(t *testing.T) {
	aggRepo := &fakeAggRepo{aggs: []*entity.StockAggregate{
		{ProductID: "p1", SourceID: "ghost", Available: 2},
	}}
	unitRepo := &fakeUnitRepo{}

	report, err := NewUseCase(aggRepo, unitRepo, testLogger()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, 2, report.Discrepancies[0].Aggregate)
	assert.Equal(t, 0, report.Discrepancies[0].Units)
}

func TestRun_IdempotentOnUnchangedState(t *testing.T) {
	aggRepo := &fakeAggRepo{aggs: []*entity.StockAggregate{
		{ProductID: "p1", SourceID: "s1", Available: 2, Sold: 3},
	}}
	unitRepo := &fakeUnitRepo{units: unitsFor("p1", "s1", map[string]int{
		entity.UnitAvailable: 2,
		entity.UnitSold:      3,
	})}
	uc := NewUseCase(aggRepo, unitRepo, testLogger())

	first, err := uc.Run(context.Background())
	require.NoError(t, err)
	second, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
