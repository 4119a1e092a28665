package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
)

// PurchaseHandler handles purchase orders and goods receipts.
type PurchaseHandler struct {
	uc *fulfillment.PurchaseUseCase
}

// NewPurchaseHandler builds the handler.
func NewPurchaseHandler(uc *fulfillment.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// CreatePO registers a purchase order: POST /api/purchase-orders
func (h *PurchaseHandler) CreatePO(c *fiber.Ctx) error {
	var in dto.PurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.CreatePO(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetPO returns a purchase order with delivery progress: GET /api/purchase-orders/:id
func (h *PurchaseHandler) GetPO(c *fiber.Ctx) error {
	resp, err := h.uc.GetPO(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Receive commits a goods receipt: POST /api/purchases/receipts
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.PurchaseReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Receive(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
