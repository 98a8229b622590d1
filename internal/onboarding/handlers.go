package onboarding

import (
	"carbonflow-backend/internal/middleware"
	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Submit POST /api/v1/onboarding — allocate initial credits from the
// consumption form.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body Consumption
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid submission data", fiber.StatusBadRequest)
	}
	if body.ElectricityKWh < 0 || body.FuelLiters < 0 {
		return response.Error(c, "Invalid submission data", fiber.StatusBadRequest)
	}

	result, err := h.Service.CalculateInitialCredits(c.Context(), actor.UserID, body)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.SuccessCreated(c, "Onboarding complete", result)
}
