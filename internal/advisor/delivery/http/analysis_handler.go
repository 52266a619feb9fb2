package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler handles HTTP requests for one-shot analyses.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	logger          *logger.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, logger *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, logger: logger}
}

// RegisterRoutes registers the analysis routes to the Echo group.
func (h *AnalysisHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateAnalysis)
}

// CreateAnalysis godoc
// @Summary Run a one-shot analysis
// @Description Resolve the ticker, gather evidence and produce a trading signal
// @Tags analysis
// @Accept  json
// @Produce  json
// @Param   analysis  body    dto.AnalysisRequest   true    "Ticker and pipeline mode"
// @Success 200 {object} entity.AnalysisResult
// @Failure 400 {object} entity.AnalysisResult
// @Failure 502 {object} entity.AnalysisResult
// @Failure 500 {object} entity.AnalysisResult
// @Router /analysis [post]
func (h *AnalysisHandler) CreateAnalysis(c echo.Context) error {
	var req dto.AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	result, err := h.analysisService.Analyze(c.Request().Context(), req.ToEntity())
	if err != nil {
		// the result still carries the terminal message for the caller
		if result == nil {
			return errorJSON(c, err)
		}
		return c.JSON(statusFor(err), result)
	}

	return c.JSON(http.StatusOK, result)
}
