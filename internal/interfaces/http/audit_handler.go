package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swarnpos/jewelpos-api/internal/application/audit"
)

// AuditHandler triggers an on-demand consistency audit.
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler builds the handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Run executes the audit and returns its report: GET /api/audit
func (h *AuditHandler) Run(c *fiber.Ctx) error {
	report, err := h.uc.Run(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
