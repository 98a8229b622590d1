package market

import (
	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Get GET /api/v1/market — the current credit market price.
func (h *Handlers) Get(c *fiber.Ctx) error {
	quote, err := h.Service.CurrentPrice(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Market data", quote)
}
