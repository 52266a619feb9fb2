package service

import (
	"context"
	"errors"
	"testing"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalysisService(ai *stubAIRepo, tickers *stubTickerRepo, prices *stubPriceRepo) AnalysisService {
	log := logger.NewNop()
	m := metrics.NewNop()
	fetcher := NewEvidenceFetcher(newTestConfig(), log, m, &stubSearchRepo{}, prices)
	return NewAnalysisService(log, m, NewTickerResolver(tickers, log), ai, fetcher, entity.ModeBasic)
}

func TestAnalyzeBasic(t *testing.T) {
	ai := newStubAIRepo(entity.TradingSignal{Signal: entity.SignalBullish, Confidence: 80, Action: entity.ActionHold, Reason: "r"})
	prices := &stubPriceRepo{quotes: []entity.PriceQuote{{Date: day(1), Close: 100}, {Date: day(2), Close: 101}}}

	result, err := newTestAnalysisService(ai, knownTicker("AAPL"), prices).Analyze(context.Background(), entity.AnalysisRequest{Ticker: "AAPL"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, entity.ModeBasic, result.Mode)
	assert.Equal(t, []string{"steady business"}, result.Summary)
	assert.Nil(t, result.Report)
	assert.Equal(t, 101.0, result.LastClose)

	// policy is enforced on the model output
	assert.Equal(t, entity.ActionBuy, result.Signal.Action)
	assert.Equal(t, 200, result.Signal.Stocks)
}

func TestAnalyzeExtended(t *testing.T) {
	ai := newStubAIRepo(entity.TradingSignal{Signal: entity.SignalNeutral, Confidence: 50, Action: entity.ActionBuy, Stocks: 50, Reason: "r"})
	ai.relevance = []entity.QueryRelevance{{Category: entity.CategoryRecent, Query: "q", Relevance: 7, Sentiment: "positive"}}

	result, err := newTestAnalysisService(ai, knownTicker("AAPL"), &stubPriceRepo{}).Analyze(context.Background(), entity.AnalysisRequest{
		Ticker: "AAPL",
		Mode:   entity.ModeExtended,
	})
	require.NoError(t, err)
	assert.NotNil(t, result.Report)
	assert.Len(t, result.Relevance, 1)
	assert.Empty(t, result.Summary)
	assert.Equal(t, entity.ActionHold, result.Signal.Action)
	assert.Zero(t, result.Signal.Stocks)
}

func TestAnalyzeAbortsOnFirstFailure(t *testing.T) {
	ai := newStubAIRepo(entity.TradingSignal{})
	ai.failOn[repository.StepSynthesize] = errors.New("model unavailable")

	result, err := newTestAnalysisService(ai, knownTicker("AAPL"), &stubPriceRepo{}).Analyze(context.Background(), entity.AnalysisRequest{Ticker: "AAPL"})
	require.Error(t, err)
	assert.True(t, entity.IsModelOutputError(err))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "model unavailable")
	assert.NotNil(t, result.Queries)
	assert.Nil(t, result.Signal)
}

func TestAnalyzeInvalidTicker(t *testing.T) {
	ai := newStubAIRepo(entity.TradingSignal{})
	tickers := &stubTickerRepo{quotes: []entity.SymbolQuote{{Symbol: "AAPL"}}}

	result, err := newTestAnalysisService(ai, tickers, &stubPriceRepo{}).Analyze(context.Background(), entity.AnalysisRequest{Ticker: "APPL"})
	assert.True(t, entity.IsValidationError(err))
	assert.False(t, result.Success)
	assert.Nil(t, result.Queries)
}
