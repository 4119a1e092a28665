package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/dto"
	"github.com/swarnpos/jewelpos-api/internal/application/fulfillment"
)

// ExchangeHandler handles exchange fulfillment requests.
type ExchangeHandler struct {
	uc *fulfillment.ExchangeUseCase
}

// NewExchangeHandler builds the handler.
func NewExchangeHandler(uc *fulfillment.ExchangeUseCase) *ExchangeHandler {
	return &ExchangeHandler{uc: uc}
}

// Exchange commits an exchange: POST /api/exchanges
func (h *ExchangeHandler) Exchange(c *fiber.Ctx) error {
	var in dto.ExchangeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Exchange(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
