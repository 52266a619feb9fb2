package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"

	"github.com/robfig/cron/v3"
)

// WatchlistSchedulerService runs a one-shot analysis for every watched ticker on a cron schedule.
type WatchlistSchedulerService interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) []*entity.AnalysisResult
}

type watchlistSchedulerService struct {
	cfg      *config.Config
	logger   *logger.Logger
	analysis AnalysisService
	notifier telegram.Notifier
	cron     *cron.Cron
	running  sync.Mutex
}

// NewWatchlistSchedulerService creates a new watchlist scheduler service.
func NewWatchlistSchedulerService(cfg *config.Config, log *logger.Logger, analysis AnalysisService, notifier telegram.Notifier) WatchlistSchedulerService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &watchlistSchedulerService{
		cfg:      cfg,
		logger:   log,
		analysis: analysis,
		notifier: notifier,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the watchlist job and blocks until ctx is done.
func (s *watchlistSchedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Watchlist.Schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to parse watchlist schedule %q: %w", s.cfg.Watchlist.Schedule, err)
	}

	s.logger.Info("Watchlist scheduler started",
		logger.StringField("schedule", s.cfg.Watchlist.Schedule),
		logger.Field("tickers", s.cfg.Watchlist.Tickers),
	)
	s.cron.Start()

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("Watchlist scheduler stopping")
	return nil
}

// RunOnce analyzes the watchlist sequentially. A tick that fires while the
// previous one is still running is skipped.
func (s *watchlistSchedulerService) RunOnce(ctx context.Context) []*entity.AnalysisResult {
	if !s.running.TryLock() {
		s.logger.Warn("Previous watchlist run still in progress, skipping")
		return nil
	}
	defer s.running.Unlock()

	results := make([]*entity.AnalysisResult, 0, len(s.cfg.Watchlist.Tickers))
	seen := make([]string, 0, len(s.cfg.Watchlist.Tickers))
	for _, ticker := range s.cfg.Watchlist.Tickers {
		if !utils.ShouldContinue(ctx) {
			break
		}
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" || utils.ContainsString(seen, ticker) {
			continue
		}
		seen = append(seen, ticker)

		result, err := s.analysis.Analyze(ctx, entity.AnalysisRequest{Ticker: ticker, Mode: entity.PipelineMode(s.cfg.Pipeline.Mode)})
		if err != nil {
			s.logger.Error("Watchlist analysis failed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
		results = append(results, result)

		if err := s.notifier.SendMessage(telegram.FormatAnalysisForTelegram(result)); err != nil {
			s.logger.Error("Failed to send Telegram notification", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
	}
	return results
}
