package handlers

import (
	"net/http"

	"freshtrack/internal/caching"
	"freshtrack/internal/common"
	"freshtrack/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandlers reports liveness and dependency health
type HealthHandlers struct {
	pool         *pgxpool.Pool
	cacheService caching.CacheService
	minioService services.MinioService
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(pool *pgxpool.Pool, cacheService caching.CacheService, minioService services.MinioService) *HealthHandlers {
	return &HealthHandlers{
		pool:         pool,
		cacheService: cacheService,
		minioService: minioService,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return common.RespondSuccess(c, http.StatusOK, map[string]string{"service": "freshtrack"})
}

// DetailedHealthCheck handles GET /health/detailed and pings each
// dependency individually.
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	ctx := c.Request().Context()

	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
		"storage":  "ok",
	}
	healthy := true

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.cacheService.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}
	if !h.minioService.Online(ctx) {
		checks["storage"] = "unreachable"
		healthy = false
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, &common.Envelope{
			Status:  "error",
			Data:    checks,
			Message: "one or more dependencies are unhealthy",
		})
	}
	return common.RespondSuccess(c, http.StatusOK, checks)
}
