package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swarnpos/jewelpos-api/internal/domain"
	"github.com/swarnpos/jewelpos-api/internal/domain/entity"
	"github.com/swarnpos/jewelpos-api/internal/domain/repository"
)

var _ repository.RateRepository = (*RateRepo)(nil)

// RateRepo implements the metal rate port over PostgreSQL. Rates are
// append-only; the latest effective_at row per (metal, purity) wins.
type RateRepo struct {
	q Querier
}

// NewRateRepository builds the rate adapter. Pass pool or tx (Querier).
func NewRateRepository(q Querier) *RateRepo {
	return &RateRepo{q: q}
}

// GetLatest returns the newest rate for a (metal, purity) pair, nil when the
// pair has no rate yet.
func (r *RateRepo) GetLatest(metalType, purity string) (*entity.MetalRate, error) {
	query := `
		SELECT id, metal_type, purity, rate_per_gram, effective_at, created_at
		FROM metal_rates
		WHERE metal_type = $1 AND purity = $2
		ORDER BY effective_at DESC, created_at DESC
		LIMIT 1`
	var m entity.MetalRate
	err := r.q.QueryRow(context.Background(), query, metalType, purity).Scan(
		&m.ID, &m.MetalType, &m.Purity, &m.RatePerGram, &m.EffectiveAt, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest rate: %w", err)
	}
	return &m, nil
}

// Create appends a rate row.
func (r *RateRepo) Create(rate *entity.MetalRate) error {
	query := `
		INSERT INTO metal_rates (id, metal_type, purity, rate_per_gram, effective_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		rate.ID, rate.MetalType, rate.Purity, rate.RatePerGram, rate.EffectiveAt, rate.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert rate: %w", err)
	}
	return nil
}

// ListCurrent returns the latest rate per (metal, purity) pair.
func (r *RateRepo) ListCurrent() ([]*entity.MetalRate, error) {
	query := `
		SELECT DISTINCT ON (metal_type, purity)
			id, metal_type, purity, rate_per_gram, effective_at, created_at
		FROM metal_rates
		ORDER BY metal_type, purity, effective_at DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list current rates: %w", err)
	}
	defer rows.Close()

	var out []*entity.MetalRate
	for rows.Next() {
		var m entity.MetalRate
		if err := rows.Scan(&m.ID, &m.MetalType, &m.Purity, &m.RatePerGram, &m.EffectiveAt, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
