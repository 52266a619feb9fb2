package repository

import (
	"context"
	"time"

	"golang-stock-advisor/internal/entity"

	"google.golang.org/genai"
)

// StructuredPrompt is a single generative call whose answer must be a JSON
// document matching Schema.
type StructuredPrompt struct {
	Step   string
	System string
	User   string
	Schema *genai.Schema
}

// ModelClient is a generative model backend able to produce structured JSON.
type ModelClient interface {
	GenerateJSON(ctx context.Context, prompt StructuredPrompt) (string, error)
}

// QueryPlanner plans the search queries for a ticker. A non-nil asOf
// restricts the queries to information knowable before that date.
type QueryPlanner interface {
	PlanQueries(ctx context.Context, ticker string, asOf *time.Time) (*entity.QuerySet, error)
}

// EvidenceSynthesizer condenses evidence into at most ten bullet points.
type EvidenceSynthesizer interface {
	Synthesize(ctx context.Context, ticker string, evidence *entity.Evidence) ([]string, error)
}

// SignalInput is what the signal generator reasons over. Exactly one of
// Summary or Report is expected to be set.
type SignalInput struct {
	Summary   []string
	Report    *entity.ResearchReport
	LastClose float64
	AsOf      *time.Time
}

// SignalGenerator derives a trading signal from synthesized evidence.
type SignalGenerator interface {
	GenerateSignal(ctx context.Context, ticker string, input SignalInput) (*entity.TradingSignal, error)
}

// RelevanceAnalyzer scores every query that returned results.
type RelevanceAnalyzer interface {
	AnalyzeRelevance(ctx context.Context, ticker string, evidence *entity.Evidence) ([]entity.QueryRelevance, error)
}

// ReportGenerator writes the research report of the extended pipeline.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, ticker string, prices entity.PriceSeries, relevance []entity.QueryRelevance) (*entity.ResearchReport, error)
}

// AIRepository groups every model-backed pipeline step.
type AIRepository interface {
	QueryPlanner
	EvidenceSynthesizer
	SignalGenerator
	RelevanceAnalyzer
	ReportGenerator
}

// SearchRepository is a web/news search provider.
type SearchRepository interface {
	Search(ctx context.Context, query string, opts entity.SearchOptions) (*entity.SearchResponse, error)
}

// ChartParams bound a price history request.
type ChartParams struct {
	Period1  time.Time
	Period2  time.Time
	Interval string
}

// PriceRepository fetches historical daily prices.
type PriceRepository interface {
	Chart(ctx context.Context, ticker string, params ChartParams) ([]entity.PriceQuote, error)
}

// TickerRepository looks up symbols matching a query.
type TickerRepository interface {
	SearchSymbols(ctx context.Context, query string) ([]entity.SymbolQuote, error)
}
