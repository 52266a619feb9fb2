package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/entity"

	"github.com/labstack/echo/v4"
)

func statusFor(err error) int {
	switch {
	case entity.IsValidationError(err):
		return http.StatusBadRequest
	case entity.IsUpstreamFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	return c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
}
