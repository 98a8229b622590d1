package middleware

import (
	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Not authenticated")
		}
		return c.Next()
	}
}

// Actor is the authenticated caller extracted from the session.
type Actor struct {
	UserID       uuid.UUID
	Email        string
	IndustryName string
}

// GetActor returns the session user parsed into an Actor, or nil when the
// request is unauthenticated or the session payload is malformed.
func GetActor(c *fiber.Ctx) *Actor {
	u := c.Locals(userLocal)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	idStr, _ := m["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}
	email, _ := m["email"].(string)
	name, _ := m["industry_name"].(string)
	return &Actor{UserID: id, Email: email, IndustryName: name}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}
