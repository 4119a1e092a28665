package main

import (
	"context"
	"os"

	"github.com/swarnpos/jewelpos-api/internal/application/audit"
	"github.com/swarnpos/jewelpos-api/internal/infrastructure/postgres"
	"github.com/swarnpos/jewelpos-api/pkg/config"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

// One-shot consistency audit for cron or CI. Exits non-zero when the counters
// and the unit registry diverge.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	uc := audit.NewUseCase(
		postgres.NewAggregateRepository(pool),
		postgres.NewUnitRepository(pool),
		log,
	)
	report, err := uc.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("audit run failed")
	}

	for _, d := range report.Discrepancies {
		log.Warn().
			Str("product_id", d.ProductID).
			Str("source_id", d.SourceID).
			Str("field", d.Field).
			Int("aggregate", d.Aggregate).
			Int("units", d.Units).
			Msg("discrepancy")
	}
	if len(report.Discrepancies) > 0 {
		os.Exit(1)
	}
}
