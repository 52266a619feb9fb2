package dto

import (
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/utils"
)

// SimulationRequest is the DTO for starting a simulation. Omitted amounts
// fall back to the configured defaults.
type SimulationRequest struct {
	Ticker        string   `json:"ticker" validate:"required"`
	StartDate     string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	InitialCash   *float64 `json:"initial_cash,omitempty" validate:"omitempty,gte=0"`
	InitialShares *int64   `json:"initial_shares,omitempty" validate:"omitempty,gte=0"`
	TradeSize     *int64   `json:"trade_size,omitempty" validate:"omitempty,gt=0"`
}

// ToParams converts the request into simulation parameters. Dates must
// already be validated.
func (r SimulationRequest) ToParams(defaults config.Simulation) entity.SimulationParams {
	start, _ := time.Parse(utils.DateLayout, r.StartDate)
	end, _ := time.Parse(utils.DateLayout, r.EndDate)

	params := entity.SimulationParams{
		Ticker:        strings.ToUpper(strings.TrimSpace(r.Ticker)),
		StartDate:     start,
		EndDate:       end,
		InitialCash:   defaults.InitialCash,
		InitialShares: defaults.InitialShares,
		TradeSize:     defaults.TradeSize,
	}
	if r.InitialCash != nil {
		params.InitialCash = *r.InitialCash
	}
	if r.InitialShares != nil {
		params.InitialShares = *r.InitialShares
	}
	if r.TradeSize != nil {
		params.TradeSize = *r.TradeSize
	}
	return params
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}
