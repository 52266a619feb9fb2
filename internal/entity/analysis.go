package entity

import "time"

// PipelineMode selects what the signal generator reasons over.
type PipelineMode string

const (
	// ModeBasic synthesizes a bullet summary and signals from it.
	ModeBasic PipelineMode = "basic"
	// ModeExtended scores every query, writes a research report and signals from the report.
	ModeExtended PipelineMode = "extended"
)

// AnalysisRequest asks for a one-shot analysis of a ticker.
type AnalysisRequest struct {
	Ticker string       `json:"ticker" validate:"required"`
	Mode   PipelineMode `json:"mode" validate:"omitempty,oneof=basic extended"`
}

// AnalysisResult is the outcome of a one-shot analysis. On failure only
// Success, Error and whatever was produced before the failing step are set.
type AnalysisResult struct {
	Success     bool             `json:"success"`
	Error       string           `json:"error,omitempty"`
	Ticker      string           `json:"ticker"`
	Name        string           `json:"name,omitempty"`
	Mode        PipelineMode     `json:"mode"`
	Queries     *QuerySet        `json:"queries,omitempty"`
	Evidence    *Evidence        `json:"evidence,omitempty"`
	Summary     []string         `json:"summary,omitempty"`
	Relevance   []QueryRelevance `json:"relevance,omitempty"`
	Report      *ResearchReport  `json:"report,omitempty"`
	Signal      *TradingSignal   `json:"signal,omitempty"`
	LastClose   float64          `json:"last_close,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}
