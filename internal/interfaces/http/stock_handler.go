package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/usecase"
)

// StockHandler serves read-only stock and ledger queries.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler builds the handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetStock returns the dual stock view of a product: GET /api/stock/:productId
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	view, err := h.uc.GetStock(c.Context(), c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetStockBySKU resolves a scanned SKU: GET /api/stock/sku/:sku
func (h *StockHandler) GetStockBySKU(c *fiber.Ctx) error {
	view, err := h.uc.GetStockBySKU(c.Context(), c.Params("sku"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// GetLedger returns a product's movement history: GET /api/ledger/:productId
// Query params: from, to (RFC 3339), limit, offset.
func (h *StockHandler) GetLedger(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badBody(c)
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badBody(c)
		}
		to = &t
	}
	entries, err := h.uc.GetLedger(c.Context(), c.Params("productId"), from, to,
		c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(entries), "entries": entries})
}
