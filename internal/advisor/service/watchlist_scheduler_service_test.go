package service

import (
	"context"
	"sync"
	"testing"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalysisService struct {
	mu      sync.Mutex
	tickers []string
}

func (s *stubAnalysisService) Analyze(_ context.Context, req entity.AnalysisRequest) (*entity.AnalysisResult, error) {
	s.mu.Lock()
	s.tickers = append(s.tickers, req.Ticker)
	s.mu.Unlock()
	if req.Ticker == "APPL" {
		err := entity.NewValidationError("ticker", "ticker \"APPL\" not found", nil)
		return &entity.AnalysisResult{Ticker: req.Ticker, Error: err.Error()}, err
	}
	return &entity.AnalysisResult{
		Success: true,
		Ticker:  req.Ticker,
		Signal:  &entity.TradingSignal{Signal: entity.SignalNeutral, Action: entity.ActionHold, Reason: "r"},
	}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingNotifier) SendMessage(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, text)
	return nil
}

func TestWatchlistRunOnce(t *testing.T) {
	cfg := newTestConfig()
	cfg.Watchlist.Schedule = "@daily"
	cfg.Watchlist.Tickers = []string{" aapl", "APPL", "", "msft", "AAPL"}
	cfg.Pipeline.Mode = "basic"

	analysis := &stubAnalysisService{}
	notifier := &recordingNotifier{}
	svc := NewWatchlistSchedulerService(cfg, logger.NewNop(), analysis, notifier)

	results := svc.RunOnce(context.Background())
	require.Len(t, results, 3)
	assert.Equal(t, []string{"AAPL", "APPL", "MSFT"}, analysis.tickers)
	assert.False(t, results[1].Success)
	assert.Len(t, notifier.sent, 3)
}

func TestWatchlistStartRejectsBadSchedule(t *testing.T) {
	cfg := newTestConfig()
	cfg.Watchlist.Schedule = "every now and then"

	svc := NewWatchlistSchedulerService(cfg, logger.NewNop(), &stubAnalysisService{}, &recordingNotifier{})
	assert.Error(t, svc.Start(context.Background()))
}

func TestWatchlistStartStopsWithContext(t *testing.T) {
	cfg := newTestConfig()
	cfg.Watchlist.Schedule = "@daily"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewWatchlistSchedulerService(cfg, logger.NewNop(), &stubAnalysisService{}, &recordingNotifier{})
	assert.NoError(t, svc.Start(ctx))
}
