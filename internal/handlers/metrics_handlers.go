package handlers

import (
	"net/http"

	"freshtrack/internal/common"
	"freshtrack/internal/services"

	"github.com/labstack/echo/v4"
)

// MetricsHandlers exposes the inventory summary and operation counters
type MetricsHandlers struct {
	metrics services.MetricsService
}

// NewMetricsHandlers creates a new metrics handlers instance
func NewMetricsHandlers(metrics services.MetricsService) *MetricsHandlers {
	return &MetricsHandlers{metrics: metrics}
}

// GetSummary handles GET /metrics/summary
func (h *MetricsHandlers) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.metrics.Summary(ctx)
	if err != nil {
		return respondServiceError(c, err, "Failed to compute metrics summary")
	}
	return common.RespondSuccess(c, http.StatusOK, summary)
}

// GetCounters handles GET /metrics/counters
func (h *MetricsHandlers) GetCounters(c echo.Context) error {
	ctx := c.Request().Context()

	counters := map[string]int64{
		services.MetricPageViews:    h.metrics.Counter(ctx, services.MetricPageViews),
		services.MetricBatchCreated: h.metrics.Counter(ctx, services.MetricBatchCreated),
		services.MetricBatchUpdated: h.metrics.Counter(ctx, services.MetricBatchUpdated),
		services.MetricBatchDeleted: h.metrics.Counter(ctx, services.MetricBatchDeleted),
	}
	return common.RespondSuccess(c, http.StatusOK, counters)
}
