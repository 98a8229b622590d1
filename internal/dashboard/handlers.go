package dashboard

import (
	"carbonflow-backend/internal/balances"
	"carbonflow-backend/internal/emissions"
	"carbonflow-backend/internal/market"
	"carbonflow-backend/internal/middleware"
	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers composes the dashboard payload from balances, market data, and
// emissions in one round trip.
type Handlers struct {
	Balances  *balances.Service
	Market    *market.Service
	Emissions *emissions.Service
}

// Get GET /api/v1/dashboard
func (h *Handlers) Get(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	snapshot, err := h.Balances.GetBalance(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	price, err := h.Market.CurrentPrice(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	reduction, err := h.Emissions.MonthlyReduction(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	status, err := h.Emissions.Status(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}

	return response.Success(c, "Dashboard data", fiber.Map{
		"profile":    snapshot,
		"market":     price,
		"reduction":  reduction,
		"compliance": status,
	})
}
