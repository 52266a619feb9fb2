package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TickerHandler handles HTTP requests for ticker validation.
type TickerHandler struct {
	resolver service.TickerResolver
	logger   *logger.Logger
}

// NewTickerHandler creates a new TickerHandler.
func NewTickerHandler(resolver service.TickerResolver, logger *logger.Logger) *TickerHandler {
	return &TickerHandler{resolver: resolver, logger: logger}
}

// RegisterRoutes registers the ticker routes to the Echo group.
func (h *TickerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.ValidateTicker)
}

// ValidateTicker godoc
// @Summary Validate a ticker symbol
// @Description Look up a symbol and return close matches when it is unknown
// @Tags tickers
// @Produce  json
// @Param   symbol  path    string true    "Ticker symbol"
// @Success 200 {object} entity.TickerResolution
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /tickers/{symbol} [get]
func (h *TickerHandler) ValidateTicker(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid ticker symbol"})
	}

	resolution, err := h.resolver.Resolve(c.Request().Context(), symbol)
	if err != nil {
		if resolution != nil {
			return c.JSON(statusFor(err), dto.ErrorResponse{Error: resolution.Message, Suggestions: resolution.Suggestions})
		}
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, resolution)
}
