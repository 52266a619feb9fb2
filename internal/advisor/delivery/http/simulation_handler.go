package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"

	"github.com/labstack/echo/v4"
)

// SimulationHandler handles HTTP requests for historical simulations.
type SimulationHandler struct {
	simulationService service.SimulationService
	defaults          config.Simulation
	notifier          telegram.Notifier
	logger            *logger.Logger
}

// NewSimulationHandler creates a new SimulationHandler. Finished runs are
// summarized through notifier.
func NewSimulationHandler(
	simulationService service.SimulationService,
	defaults config.Simulation,
	notifier telegram.Notifier,
	logger *logger.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		simulationService: simulationService,
		defaults:          defaults,
		notifier:          notifier,
		logger:            logger,
	}
}

// RegisterRoutes registers the simulation routes to the Echo group.
func (h *SimulationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.RunSimulation)
}

// RunSimulation godoc
// @Summary Run a historical simulation
// @Description Replay the evidence pipeline day by day over a date window and track a paper portfolio
// @Tags simulations
// @Accept  json
// @Produce  json
// @Param   simulation  body    dto.SimulationRequest   true    "Simulation parameters"
// @Success 200 {object} entity.SimulationResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /simulations [post]
func (h *SimulationHandler) RunSimulation(c echo.Context) error {
	var req dto.SimulationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	result, err := h.simulationService.Run(ctx, req.ToParams(h.defaults), nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "Simulation failed", logger.StringField("ticker", req.Ticker), logger.ErrorField(err))
		return errorJSON(c, err)
	}

	if err := telegram.SendAll(h.notifier, telegram.FormatSimulationForTelegram(result)); err != nil {
		h.logger.WarnContext(ctx, "Failed to send simulation summary", logger.StringField("run_id", result.RunID), logger.ErrorField(err))
	}

	return c.JSON(http.StatusOK, result)
}
