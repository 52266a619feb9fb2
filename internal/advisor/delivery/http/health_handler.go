package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness and Prometheus endpoints.
type HealthHandler struct {
	name    string
	version string
	metrics *metrics.Registry
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(name, version string, m *metrics.Registry) *HealthHandler {
	return &HealthHandler{name: name, version: version, metrics: m}
}

// RegisterRoutes registers /healthz and /metrics on the root router.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce  json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Name: h.name, Version: h.version})
}
