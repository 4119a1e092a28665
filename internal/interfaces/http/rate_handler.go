package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/application/usecase"
)

// RateHandler manages the metal rate feed.
type RateHandler struct {
	uc *usecase.RateUseCase
}

// NewRateHandler builds the handler.
func NewRateHandler(uc *usecase.RateUseCase) *RateHandler {
	return &RateHandler{uc: uc}
}

// SetRate registers a new rate: POST /api/rates
func (h *RateHandler) SetRate(c *fiber.Ctx) error {
	var in dto.RateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rate, err := h.uc.SetRate(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rate)
}

// CurrentRates lists the latest rate per (metal, purity): GET /api/rates/current
func (h *RateHandler) CurrentRates(c *fiber.Ctx) error {
	rates, err := h.uc.CurrentRates(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(rates), "rates": rates})
}
