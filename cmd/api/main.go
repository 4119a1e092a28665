package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/swarnpos/jewelpos-api/internal/application/audit"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
	"github.com/swarnpos/jewelpos-api/internal/application/usecase"
	"github.com/swarnpos/jewelpos-api/internal/domain/pricing"
	"github.com/swarnpos/jewelpos-api/internal/domain/tag"
	"github.com/swarnpos/jewelpos-api/internal/infrastructure/notify"
	"github.com/swarnpos/jewelpos-api/internal/infrastructure/postgres"
	"github.com/swarnpos/jewelpos-api/internal/infrastructure/scheduler"
	httpRouter "github.com/swarnpos/jewelpos-api/internal/interfaces/http"
	"github.com/swarnpos/jewelpos-api/pkg/config"
	"github.com/swarnpos/jewelpos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	unitRepo := postgres.NewUnitRepository(pool)
	aggRepo := postgres.NewAggregateRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	rateRepo := postgres.NewRateRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	taxRates := pricing.TaxRates{
		CGSTPercent: decimal.NewFromFloat(cfg.Tax.CGSTPercent),
		SGSTPercent: decimal.NewFromFloat(cfg.Tax.SGSTPercent),
		IGSTPercent: decimal.NewFromFloat(cfg.Tax.IGSTPercent),
	}
	tagGen := tag.NewGenerator()
	sink := notify.NewWebhookSink(cfg.Notify)

	saleUC := fulfillment.NewSaleUseCase(txRunner, productRepo, partyRepo, orderRepo, taxRates, sink, log)
	purchaseUC := fulfillment.NewPurchaseUseCase(txRunner, productRepo, partyRepo, poRepo, tagGen)
	exchangeUC := fulfillment.NewExchangeUseCase(txRunner, productRepo, partyRepo, unitRepo, taxRates, sink, log)
	adjustmentUC := fulfillment.NewAdjustmentUseCase(txRunner, productRepo, tagGen)
	rateUC := usecase.NewRateUseCase(rateRepo)
	stockUC := usecase.NewStockUseCase(productRepo, aggRepo, unitRepo, ledgerRepo)
	auditUC := audit.NewUseCase(aggRepo, unitRepo, log)

	// Hourly consistency audit (configurable via AUDIT_CRON)
	var sched *scheduler.Scheduler
	if cfg.Audit.CronSpec != "" {
		sched = scheduler.NewScheduler(cfg.Audit, auditUC, log)
		sched.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaleUC:       saleUC,
		PurchaseUC:   purchaseUC,
		ExchangeUC:   exchangeUC,
		AdjustmentUC: adjustmentUC,
		RateUC:       rateUC,
		StockUC:      stockUC,
		AuditUC:      auditUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if sched != nil {
		sched.Stop()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown HTTP server")
	}
}
