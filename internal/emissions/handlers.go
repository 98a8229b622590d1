package emissions

import (
	"carbonflow-backend/internal/middleware"
	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service  *Service
	Sweeper  *Sweeper
	AdminKey string
}

// Logs GET /api/v1/emissions/logs
func (h *Handlers) Logs(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	logs, err := h.Service.Logs(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Emission logs", fiber.Map{"logs": logs})
}

// History GET /api/v1/emissions/history
func (h *Handlers) History(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	rows, err := h.Service.MonthlyHistory(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Monthly emissions history", fiber.Map{"history": rows})
}

// Reduction GET /api/v1/emissions/reduction
func (h *Handlers) Reduction(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	r, err := h.Service.MonthlyReduction(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Monthly reduction", r)
}

// Status GET /api/v1/emissions/status
func (h *Handlers) Status(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	st, err := h.Service.Status(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Compliance status", st)
}

// RunSweep POST /api/v1/compliance/run — admin-only sweep that emails every
// at-risk user. Guarded by the X-Admin-Key header, not a session.
func (h *Handlers) RunSweep(c *fiber.Ctx) error {
	if h.AdminKey == "" || c.Get("X-Admin-Key") != h.AdminKey {
		return response.Error(c, "Forbidden", fiber.StatusForbidden)
	}
	sent, err := h.Sweeper.Run(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
	return response.Success(c, "Compliance sweep complete", fiber.Map{"alerts_sent": sent})
}
