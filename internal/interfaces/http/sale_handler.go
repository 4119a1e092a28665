package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
)

// SaleHandler handles sale and return fulfillment requests.
type SaleHandler struct {
	uc *fulfillment.SaleUseCase
}

// NewSaleHandler builds the handler.
func NewSaleHandler(uc *fulfillment.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Sell commits a sale: POST /api/sales
func (h *SaleHandler) Sell(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Sell(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Return reverses a committed order: POST /api/sales/:id/return
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.OrderID = c.Params("id")
	resp, err := h.uc.Return(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
