package dto

import (
	"strings"

	"golang-stock-advisor/internal/entity"
)

// AnalysisRequest is the DTO for requesting a one-shot analysis.
type AnalysisRequest struct {
	Ticker string `json:"ticker" validate:"required"`
	Mode   string `json:"mode" validate:"omitempty,oneof=basic extended"` // defaults to the configured pipeline mode
}

// ToEntity normalizes the request.
func (r AnalysisRequest) ToEntity() entity.AnalysisRequest {
	return entity.AnalysisRequest{
		Ticker: strings.ToUpper(strings.TrimSpace(r.Ticker)),
		Mode:   entity.PipelineMode(strings.ToLower(strings.TrimSpace(r.Mode))),
	}
}
