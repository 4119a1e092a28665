package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/audit"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
	"github.com/swarnpos/jewelpos-api/internal/application/usecase"
)

// RouterDeps bundles the use cases the router wires into handlers.
type RouterDeps struct {
	SaleUC       *fulfillment.SaleUseCase
	PurchaseUC   *fulfillment.PurchaseUseCase
	ExchangeUC   *fulfillment.ExchangeUseCase
	AdjustmentUC *fulfillment.AdjustmentUseCase
	RateUC       *usecase.RateUseCase
	StockUC      *usecase.StockUseCase
	AuditUC      *audit.UseCase
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	saleHandler := NewSaleHandler(deps.SaleUC)
	sales := api.Group("/sales")
	sales.Post("/", saleHandler.Sell)
	sales.Post("/:id/return", saleHandler.Return)

	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	pos := api.Group("/purchase-orders")
	pos.Post("/", purchaseHandler.CreatePO)
	pos.Get("/:id", purchaseHandler.GetPO)
	api.Post("/purchases/receipts", purchaseHandler.Receive)

	exchangeHandler := NewExchangeHandler(deps.ExchangeUC)
	api.Post("/exchanges", exchangeHandler.Exchange)

	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	api.Post("/adjustments", adjustmentHandler.Adjust)
	api.Post("/transfers", adjustmentHandler.Transfer)

	rateHandler := NewRateHandler(deps.RateUC)
	rates := api.Group("/rates")
	rates.Post("/", rateHandler.SetRate)
	rates.Get("/current", rateHandler.CurrentRates)

	stockHandler := NewStockHandler(deps.StockUC)
	api.Get("/stock/sku/:sku", stockHandler.GetStockBySKU)
	api.Get("/stock/:productId", stockHandler.GetStock)
	api.Get("/ledger/:productId", stockHandler.GetLedger)

	auditHandler := NewAuditHandler(deps.AuditUC)
	api.Get("/audit", auditHandler.Run)
}
