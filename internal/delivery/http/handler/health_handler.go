package handler

import (
	"context"
	"time"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the store as required and the cache as optional:
// an unreachable cache degrades the status but keeps 200.
type HealthHandler struct {
	store Pinger
	cache Pinger
}

func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := dto.HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := fiber.StatusOK

	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			out.Status = "unavailable"
			out.Checks["store"] = "down"
			status = fiber.StatusServiceUnavailable
		} else {
			out.Checks["store"] = "up"
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			out.Checks["cache"] = "down"
			if out.Status == "ok" {
				out.Status = "degraded"
			}
		} else {
			out.Checks["cache"] = "up"
		}
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, out)
	}
	return response.Success(c, status, response.MessageOK, out)
}
