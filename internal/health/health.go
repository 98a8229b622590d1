package health

import (
	"context"
	"runtime"
	"time"

	"carbonflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// Handlers serves the health endpoint. DB/Rdb may be nil (reported as
// disconnected, not an error).
type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

type depStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// JSON GET /health/json — runtime info plus dependency connectivity.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	deps := map[string]depStatus{
		"database": h.pingDB(),
		"redis":    h.pingRedis(),
	}

	status := "ok"
	for _, d := range deps {
		if d.Status != "connected" {
			status = "degraded"
		}
	}

	return response.Success(c, "Health", fiber.Map{
		"status":        status,
		"uptimeSeconds": int64(time.Since(startedAt).Seconds()),
		"goVersion":     runtime.Version(),
		"dependencies":  deps,
	})
}

func (h *Handlers) pingDB() depStatus {
	if h.DB == nil {
		return depStatus{Status: "disconnected", PingMs: nil}
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		return depStatus{Status: "error", PingMs: nil}
	}
	start := time.Now()
	if err := sqlDB.Ping(); err != nil {
		return depStatus{Status: "error", PingMs: nil}
	}
	return depStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}

func (h *Handlers) pingRedis() depStatus {
	if h.Rdb == nil {
		return depStatus{Status: "disconnected", PingMs: nil}
	}
	start := time.Now()
	if err := h.Rdb.Ping(context.Background()).Err(); err != nil {
		return depStatus{Status: "error", PingMs: nil}
	}
	return depStatus{Status: "connected", PingMs: time.Since(start).Milliseconds()}
}
