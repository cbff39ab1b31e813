package handlers

import (
	"topup/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type HealthHandler struct {
	store repositories.Store
	cache repositories.CacheRepository
	log   *logrus.Logger
}

func NewHealthHandler(store repositories.Store, cacheRepo repositories.CacheRepository, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{store: store, cache: cacheRepo, log: log}
}

// Check reports store and cache reachability. Only a store failure makes
// the service unhealthy; the cache is advisory.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx := c.UserContext()
	status, storeState, cacheState := "ok", "connected", "connected"
	code := fiber.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.log.WithError(err).WithField("store", h.store.Name()).Error("store health check failed")
		status, storeState, code = "unavailable", "disconnected", fiber.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("cache health check failed")
		cacheState = "disconnected"
		if code == fiber.StatusOK {
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"store":  storeState,
		"driver": h.store.Name(),
		"cache":  cacheState,
	})
}
