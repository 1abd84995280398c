package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soporteit/support-desk/internal/persistence"
)

const readinessTimeout = 2 * time.Second

// Dependency states reported by the readiness probe.
const (
	depOK          = "ok"
	depMemory      = "memory"
	depUnreachable = "unreachable"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	startedAt   time.Time
	postgres    *persistence.Postgres
	redis       *persistence.Redis
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now().UTC(),
		postgres:    postgres,
		redis:       redis,
	}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":     "alive",
		"service":    h.serviceName,
		"version":    h.version,
		"started_at": h.startedAt,
	})
}

// Ready GET /health/ready. Backends replaced by in-memory stores at boot
// report "memory" and keep the probe green.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	storage := h.storageState(ctx)
	sessions := h.sessionState(ctx)
	deps := fiber.Map{"postgres": storage, "redis": sessions}
	if h.postgres.Enabled() {
		acquired, total := h.postgres.InUse()
		deps["postgres_conns"] = fiber.Map{"acquired": acquired, "total": total}
	}

	if storage == depUnreachable || sessions == depUnreachable {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": deps,
			},
		})
	}
	return c.JSON(fiber.Map{"status": "ready", "dependencies": deps})
}

func (h *HealthHandler) storageState(ctx context.Context) string {
	if !h.postgres.Enabled() {
		return depMemory
	}
	if err := h.postgres.Ping(ctx); err != nil {
		return depUnreachable
	}
	return depOK
}

func (h *HealthHandler) sessionState(ctx context.Context) string {
	if h.redis == nil || !h.redis.Available {
		return depMemory
	}
	if err := h.redis.Ping(ctx); err != nil {
		return depUnreachable
	}
	return depOK
}
