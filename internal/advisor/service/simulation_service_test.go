package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulationService(ai *stubAIRepo, prices *stubPriceRepo) SimulationService {
	log := logger.NewNop()
	m := metrics.NewNop()
	cfg := newTestConfig()
	fetcher := NewEvidenceFetcher(cfg, log, m, &stubSearchRepo{}, prices)
	return NewSimulationService(cfg, log, m, NewTickerResolver(knownTicker("AAPL"), log), ai, fetcher, prices)
}

func signalsByDay(signals map[time.Time]entity.TradingSignal) func(*time.Time) entity.TradingSignal {
	return func(asOf *time.Time) entity.TradingSignal {
		return signals[*asOf]
	}
}

func assertReconciled(t *testing.T, entries []entity.SimulationDayEntry) {
	t.Helper()
	for _, e := range entries {
		assert.InDelta(t, e.Cash+float64(e.SharesHeld)*e.Price, e.PortfolioValue, 1e-6)
		assert.GreaterOrEqual(t, e.Cash, 0.0)
		assert.GreaterOrEqual(t, e.SharesHeld, int64(0))
	}
}

func TestSimulationThreeQuoteScenario(t *testing.T) {
	prices := &stubPriceRepo{quotes: []entity.PriceQuote{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 105},
		{Date: day(3), Close: 95},
	}}
	ai := newStubAIRepo(entity.TradingSignal{})
	ai.signalFor = signalsByDay(map[time.Time]entity.TradingSignal{
		day(2): {Signal: entity.SignalBullish, Confidence: 80, Action: entity.ActionBuy, Stocks: 100, Reason: "buy"},
		day(3): {Signal: entity.SignalBearish, Confidence: 80, Action: entity.ActionSell, Stocks: 100, Reason: "sell"},
	})

	var progressed []int
	result, err := newTestSimulationService(ai, prices).Run(context.Background(), entity.SimulationParams{
		Ticker:      "AAPL",
		StartDate:   day(2),
		EndDate:     day(3),
		InitialCash: 10000,
		TradeSize:   100,
	}, func(_ entity.SimulationDayEntry, i, total int) {
		progressed = append(progressed, i)
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StateCompleted, result.State)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Entries, 3)
	assert.Equal(t, []int{0, 1, 2}, progressed)

	start := result.Entries[0]
	assert.Equal(t, entity.StartLabel, start.Note)
	assert.Equal(t, 10000.0, start.PortfolioValue)

	for _, e := range result.Entries[1:] {
		assert.Zero(t, e.SharesTraded)
		assert.Zero(t, e.SharesHeld)
		assert.Equal(t, 10000.0, e.Cash)
		assert.Equal(t, 10000.0, e.PortfolioValue)
		assert.Empty(t, e.Action)
		assert.Contains(t, e.Note, entity.NoPositionNote)
		assert.Empty(t, e.Error)
	}
	assert.Contains(t, result.Entries[1].Note, "insufficient cash")
	assert.Equal(t, 10000.0, result.FinalValue)
	assert.Zero(t, result.ReturnPct)
	assertReconciled(t, result.Entries)

	// history fetch starts one day before the window
	assert.Equal(t, day(1), prices.params[0].Period1)
	assert.Equal(t, []time.Time{day(2), day(3)}, ai.asOfSeen)
}

func TestSimulationTradesAndReconciles(t *testing.T) {
	prices := &stubPriceRepo{quotes: []entity.PriceQuote{
		{Date: day(4), Close: 10},
		{Date: day(5), Close: 11},
		{Date: day(6), Close: 12},
		{Date: day(7), Close: 9},
	}}
	ai := newStubAIRepo(entity.TradingSignal{})
	ai.signalFor = signalsByDay(map[time.Time]entity.TradingSignal{
		day(5): {Signal: entity.SignalBullish, Confidence: 60, Action: entity.ActionBuy, Reason: "buy"},
		day(6): {Signal: entity.SignalNeutral, Confidence: 40, Action: entity.ActionHold, Reason: "hold"},
		day(7): {Signal: entity.SignalBearish, Confidence: 90, Action: entity.ActionShort, Reason: "short"},
	})

	result, err := newTestSimulationService(ai, prices).Run(context.Background(), entity.SimulationParams{
		Ticker:      "AAPL",
		StartDate:   day(5),
		EndDate:     day(7),
		InitialCash: 1000,
		TradeSize:   50,
	}, nil)
	require.NoError(t, err)
	require.Len(t, result.Entries, 4)

	buy := result.Entries[1]
	assert.Equal(t, "buy", buy.Action)
	assert.EqualValues(t, 50, buy.SharesTraded)
	assert.Equal(t, 450.0, buy.Cash)
	require.NotNil(t, buy.Confidence)
	assert.Equal(t, 60, *buy.Confidence)

	hold := result.Entries[2]
	assert.Equal(t, "hold", hold.Action)
	assert.EqualValues(t, 50, hold.SharesHeld)
	assert.Equal(t, 1050.0, hold.PortfolioValue)

	short := result.Entries[3]
	assert.Equal(t, "hold", short.Action)
	assert.Zero(t, short.SharesTraded)
	assert.Contains(t, short.Note, "short")

	assert.Equal(t, 900.0, result.FinalValue)
	assert.InDelta(t, -10.0, result.ReturnPct, 1e-9)
	assertReconciled(t, result.Entries)
}

func TestSimulationDayFailureIsIsolated(t *testing.T) {
	prices := &stubPriceRepo{quotes: []entity.PriceQuote{
		{Date: day(4), Close: 10},
		{Date: day(5), Close: 10},
		{Date: day(6), Close: 10},
	}}
	ai := newStubAIRepo(entity.TradingSignal{Signal: entity.SignalBullish, Confidence: 60, Action: entity.ActionBuy, Reason: "buy"})
	ai.failOn[repository.StepSynthesize+"@2024-03-05"] = errors.New("model timeout")

	result, err := newTestSimulationService(ai, prices).Run(context.Background(), entity.SimulationParams{
		Ticker:      "AAPL",
		StartDate:   day(5),
		EndDate:     day(6),
		InitialCash: 10000,
		TradeSize:   100,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCompleted, result.State)
	assert.Equal(t, 1, result.DaysErrored)

	failed := result.Entries[1]
	assert.Contains(t, failed.Error, "model timeout")
	assert.Equal(t, entity.StepSynthesizing, failed.FailedStep)
	assert.Zero(t, failed.SharesTraded)
	assert.Equal(t, "hold", failed.Action)

	next := result.Entries[2]
	assert.Empty(t, next.Error)
	assert.Equal(t, "buy", next.Action)
	assert.EqualValues(t, 100, next.SharesTraded)
	assertReconciled(t, result.Entries)
}

func TestSimulationEvidenceFailureCarriesPortfolioOver(t *testing.T) {
	prices := &stubPriceRepo{inWindow: true, quotes: []entity.PriceQuote{
		{Date: day(4), Close: 10},
		{Date: day(5), Close: 10},
		{Date: day(6), Close: 10},
	}}
	// only the per-day request for 2024-03-05 ends on 2024-03-06
	prices.failWhen = func(params repository.ChartParams) error {
		if params.Period2.Equal(day(6)) {
			return errors.New("chart endpoint unavailable")
		}
		return nil
	}
	ai := newStubAIRepo(entity.TradingSignal{Signal: entity.SignalBullish, Confidence: 60, Action: entity.ActionBuy, Reason: "buy"})

	result, err := newTestSimulationService(ai, prices).Run(context.Background(), entity.SimulationParams{
		Ticker:        "AAPL",
		StartDate:     day(5),
		EndDate:       day(6),
		InitialCash:   10000,
		InitialShares: 20,
		TradeSize:     100,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCompleted, result.State)
	assert.Equal(t, 1, result.DaysErrored)
	require.Len(t, result.Entries, 3)

	failed := result.Entries[1]
	assert.Equal(t, entity.StepFetchingEvidence, failed.FailedStep)
	assert.Contains(t, failed.Error, "price history")
	assert.Zero(t, failed.SharesTraded)
	assert.EqualValues(t, 20, failed.SharesHeld)
	assert.Equal(t, 10000.0, failed.Cash)
	assert.Equal(t, "hold", failed.Action)

	next := result.Entries[2]
	assert.Empty(t, next.Error)
	assert.Equal(t, "buy", next.Action)
	assert.EqualValues(t, 100, next.SharesTraded)
	assert.EqualValues(t, 120, next.SharesHeld)
	assert.Equal(t, 9000.0, next.Cash)
	assertReconciled(t, result.Entries)
}

func TestSimulationSingleDayWindow(t *testing.T) {
	prices := &stubPriceRepo{inWindow: true, quotes: []entity.PriceQuote{
		{Date: day(4), Close: 10},
		{Date: day(5), Close: 12},
	}}
	ai := newStubAIRepo(entity.TradingSignal{Signal: entity.SignalNeutral, Confidence: 20, Action: entity.ActionHold, Reason: "wait"})

	result, err := newTestSimulationService(ai, prices).Run(context.Background(), entity.SimulationParams{
		Ticker: "AAPL", StartDate: day(5), EndDate: day(5), InitialCash: 1000, TradeSize: 10,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCompleted, result.State)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, entity.StartLabel, result.Entries[0].Note)
	assert.Equal(t, day(5), result.Entries[1].Date)
	assert.Empty(t, result.Entries[1].FailedStep)
	assert.Equal(t, 1000.0, result.FinalValue)
}

func TestSimulationNeedsTwoQuotes(t *testing.T) {
	prices := &stubPriceRepo{quotes: []entity.PriceQuote{{Date: day(4), Close: 10}}}
	result, err := newTestSimulationService(newStubAIRepo(entity.TradingSignal{}), prices).Run(context.Background(), entity.SimulationParams{
		Ticker: "AAPL", StartDate: day(5), EndDate: day(6), InitialCash: 100, TradeSize: 1,
	}, nil)
	require.Error(t, err)
	assert.True(t, entity.IsValidationError(err))
	assert.Equal(t, entity.StateFailed, result.State)
	assert.Empty(t, result.Entries)
}

func TestSimulationHistoryFailureFails(t *testing.T) {
	prices := &stubPriceRepo{err: errors.New("yahoo down")}
	result, err := newTestSimulationService(newStubAIRepo(entity.TradingSignal{}), prices).Run(context.Background(), entity.SimulationParams{
		Ticker: "AAPL", StartDate: day(5), EndDate: day(6), InitialCash: 100, TradeSize: 1,
	}, nil)
	assert.True(t, entity.IsUpstreamFetchError(err))
	assert.Equal(t, entity.StateFailed, result.State)
}

func TestSimulationRejectsInvalidParams(t *testing.T) {
	svc := newTestSimulationService(newStubAIRepo(entity.TradingSignal{}), &stubPriceRepo{})
	result, err := svc.Run(context.Background(), entity.SimulationParams{
		Ticker: "AAPL", StartDate: day(6), EndDate: day(5), InitialCash: 100, TradeSize: 1,
	}, nil)
	assert.True(t, entity.IsValidationError(err))
	assert.Equal(t, entity.StateFailed, result.State)
}

func TestSimulationStopsWhenCancelled(t *testing.T) {
	prices := &stubPriceRepo{quotes: []entity.PriceQuote{
		{Date: day(4), Close: 10},
		{Date: day(5), Close: 10},
		{Date: day(6), Close: 10},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	ai := newStubAIRepo(entity.TradingSignal{Signal: entity.SignalNeutral, Confidence: 10, Action: entity.ActionHold, Reason: "r"})

	result, err := newTestSimulationService(ai, prices).Run(ctx, entity.SimulationParams{
		Ticker: "AAPL", StartDate: day(5), EndDate: day(6), InitialCash: 100, TradeSize: 1,
	}, func(_ entity.SimulationDayEntry, i, _ int) {
		if i == 1 {
			cancel()
		}
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, entity.StateFailed, result.State)
	assert.Len(t, result.Entries, 2)
}
