package settings

import (
	"errors"

	"carbonflow-backend/internal/middleware"
	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// Update PATCH /api/v1/settings — update the caller's industry name. The new
// name also replaces the session copy so subsequent listings use it.
func (h *Handlers) Update(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	var body struct {
		IndustryName string `json:"industry_name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, ErrNameRequired.Error(), fiber.StatusBadRequest)
	}

	if err := h.Service.UpdateIndustryName(c.Context(), actor.UserID, body.IndustryName); err != nil {
		switch {
		case errors.Is(err, ErrNameRequired), errors.Is(err, ErrNameInvalid):
			return response.Error(c, err.Error(), fiber.StatusBadRequest)
		case errors.Is(err, ErrProfileNotFound):
			return response.Error(c, err.Error(), fiber.StatusNotFound)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
		}
	}

	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:       actor.UserID.String(),
		Email:        actor.Email,
		IndustryName: body.IndustryName,
	})
	return response.Success(c, "Settings updated", fiber.Map{"industry_name": body.IndustryName})
}
