package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
)

// AdjustmentHandler handles corrective adjustments and location transfers.
type AdjustmentHandler struct {
	uc *fulfillment.AdjustmentUseCase
}

// NewAdjustmentHandler builds the handler.
func NewAdjustmentHandler(uc *fulfillment.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Adjust commits a signed stock correction: POST /api/adjustments
func (h *AdjustmentHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Adjust(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Transfer records a location transfer: POST /api/transfers
func (h *AdjustmentHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Transfer(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
