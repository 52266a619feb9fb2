package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProgressFunc is called after every appended log entry, the Start entry
// included. day counts from 0 and total is the number of entries the run
// will produce.
type ProgressFunc func(entry entity.SimulationDayEntry, day, total int)

// SimulationService replays the evidence pipeline over historical days.
type SimulationService interface {
	// Run always returns a result. The error is non-nil only when the run
	// failed to initialize or was cancelled; per-day failures are logged on
	// their entry instead.
	Run(ctx context.Context, params entity.SimulationParams, progress ProgressFunc) (*entity.SimulationResult, error)
}

type simulationService struct {
	cfg       *config.Config
	logger    *logger.Logger
	metrics   *metrics.Registry
	resolver  TickerResolver
	aiRepo    repository.AIRepository
	fetcher   EvidenceFetcher
	priceRepo repository.PriceRepository
	validate  *validator.Validate
	now       func() time.Time
}

// NewSimulationService creates a new SimulationService.
func NewSimulationService(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Registry,
	resolver TickerResolver,
	aiRepo repository.AIRepository,
	fetcher EvidenceFetcher,
	priceRepo repository.PriceRepository,
) SimulationService {
	return &simulationService{
		cfg:       cfg,
		logger:    log,
		metrics:   m,
		resolver:  resolver,
		aiRepo:    aiRepo,
		fetcher:   fetcher,
		priceRepo: priceRepo,
		validate:  validator.New(),
		now:       time.Now,
	}
}

func (s *simulationService) Run(ctx context.Context, params entity.SimulationParams, progress ProgressFunc) (*entity.SimulationResult, error) {
	result := &entity.SimulationResult{
		RunID:     uuid.New().String(),
		Ticker:    params.Ticker,
		State:     entity.StateIdle,
		Params:    params,
		Entries:   []entity.SimulationDayEntry{},
		StartedAt: s.now(),
	}
	ctx = logger.WithContextFields(ctx,
		logger.StringField("run_id", result.RunID),
		logger.StringField("ticker", params.Ticker),
	)

	history, err := s.initialize(ctx, result)
	if err != nil {
		return s.fail(ctx, result, err)
	}

	portfolio := NewPortfolio(params.InitialCash, params.InitialShares)
	first := history[0]
	start := entity.SimulationDayEntry{
		Date:           first.Date,
		Price:          first.Close,
		SharesHeld:     portfolio.Shares(),
		Cash:           portfolio.Cash(),
		PortfolioValue: portfolio.Value(first.Close),
		Note:           entity.StartLabel,
	}
	result.InitialValue = start.PortfolioValue
	s.appendEntry(result, start, progress, len(history))

	result.State = entity.StatePerDayLoop
	for i := 1; i < len(history); i++ {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, result, fmt.Errorf("simulation cancelled after %d of %d days: %w", i-1, len(history)-1, err))
		}

		entry := s.simulateDay(ctx, result.Ticker, history[i], portfolio, params.TradeSize)
		if entry.Error != "" {
			result.DaysErrored++
		}
		s.metrics.RecordSimulationDay(entry.Error == "")
		s.appendEntry(result, entry, progress, len(history))
	}

	result.State = entity.StateFinalizing
	last := history[len(history)-1]
	result.FinalValue = portfolio.Value(last.Close)
	if result.InitialValue > 0 {
		result.ReturnPct = (result.FinalValue - result.InitialValue) / result.InitialValue * 100
	}
	result.State = entity.StateCompleted
	result.CompletedAt = s.now()
	s.metrics.RecordSimulationRun(string(result.State))

	s.logger.InfoContext(ctx, "Simulation completed",
		logger.IntField("days", len(history)-1),
		logger.IntField("days_errored", result.DaysErrored),
		logger.FloatField("initial_value", result.InitialValue),
		logger.FloatField("final_value", result.FinalValue),
	)
	return result, nil
}

// initialize validates the run and fetches the history, seeded with one
// extra day before the window.
func (s *simulationService) initialize(ctx context.Context, result *entity.SimulationResult) (entity.PriceSeries, error) {
	params := result.Params

	result.State = entity.StateValidating
	if err := s.validate.Struct(params); err != nil {
		return nil, entity.NewValidationError("params", fmt.Sprintf("invalid simulation parameters: %v", err), err)
	}

	resolution, err := s.resolver.Resolve(ctx, params.Ticker)
	if err != nil {
		return nil, err
	}
	result.Ticker = resolution.Symbol

	result.State = entity.StateFetchingHistory
	quotes, err := s.priceRepo.Chart(ctx, result.Ticker, repository.ChartParams{
		Period1:  utils.StartOfDay(params.StartDate).AddDate(0, 0, -1),
		Period2:  utils.EndOfDay(params.EndDate),
		Interval: "1d",
	})
	if err != nil {
		return nil, entity.NewUpstreamFetchError("price history", err)
	}

	history := entity.NewPriceSeries(quotes)
	if len(history) < 2 {
		return nil, entity.NewValidationError("date range",
			fmt.Sprintf("not enough price history between %s and %s: need at least 2 quotes, got %d",
				utils.FormatDate(params.StartDate), utils.FormatDate(params.EndDate), len(history)), nil)
	}
	if maxDays := s.cfg.Simulation.MaxDays; maxDays > 0 && len(history)-1 > maxDays {
		return nil, entity.NewValidationError("date range",
			fmt.Sprintf("simulation covers %d trading days, the limit is %d", len(history)-1, maxDays), nil)
	}
	return history, nil
}

// simulateDay runs the pipeline as of quote.Date and trades on its signal.
// Any pipeline error is recorded on the entry and the day holds.
func (s *simulationService) simulateDay(ctx context.Context, ticker string, quote entity.PriceQuote, portfolio *Portfolio, tradeSize int64) entity.SimulationDayEntry {
	entry := entity.SimulationDayEntry{Date: quote.Date, Price: quote.Close}
	dayCtx := logger.WithContextFields(ctx, logger.StringField("date", utils.FormatDate(quote.Date)))

	signal, step, err := s.runPipeline(dayCtx, ticker, quote)

	trade := TradeResult{Action: entity.ActionHold}
	if err != nil {
		s.logger.WarnContext(dayCtx, "Simulation day failed", logger.ErrorField(err), logger.StringField("step", string(step)))
		entry.Error = err.Error()
		entry.FailedStep = step
	} else {
		entry.Signal = signal.Signal
		entry.Confidence = utils.ToPointer(signal.Confidence)
		entry.Reason = signal.Reason
		trade = portfolio.Execute(signal.Action, tradeSize, quote.Close)
	}

	entry.SharesTraded = trade.Traded
	entry.SharesHeld = portfolio.Shares()
	entry.Cash = portfolio.Cash()
	entry.PortfolioValue = portfolio.Value(quote.Close)
	entry.Action, entry.Note = EffectiveAction(trade, entry.SharesHeld, err)
	return entry
}

func (s *simulationService) runPipeline(ctx context.Context, ticker string, quote entity.PriceQuote) (signal *entity.TradingSignal, step entity.DayStep, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = utils.PanicError(rec)
		}
	}()

	asOf := quote.Date

	step = entity.StepPlanningQueries
	queries, err := s.aiRepo.PlanQueries(ctx, ticker, &asOf)
	if err != nil {
		return nil, step, err
	}

	step = entity.StepFetchingEvidence
	evidence, err := s.fetcher.Fetch(ctx, ticker, queries, &asOf)
	if err != nil {
		return nil, step, err
	}

	step = entity.StepSynthesizing
	summary, err := s.aiRepo.Synthesize(ctx, ticker, evidence)
	if err != nil {
		return nil, step, err
	}

	step = entity.StepGeneratingSignal
	raw, err := s.aiRepo.GenerateSignal(ctx, ticker, repository.SignalInput{
		Summary:   summary,
		LastClose: quote.Close,
		AsOf:      &asOf,
	})
	if err != nil {
		return nil, step, err
	}
	enforced := ApplySignalPolicy(*raw)
	return &enforced, "", nil
}

func (s *simulationService) appendEntry(result *entity.SimulationResult, entry entity.SimulationDayEntry, progress ProgressFunc, total int) {
	result.Entries = append(result.Entries, entry)
	if progress != nil {
		progress(entry, len(result.Entries)-1, total)
	}
}

func (s *simulationService) fail(ctx context.Context, result *entity.SimulationResult, err error) (*entity.SimulationResult, error) {
	result.State = entity.StateFailed
	result.Error = err.Error()
	result.CompletedAt = s.now()
	s.metrics.RecordSimulationRun(string(result.State))

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.WarnContext(ctx, "Simulation cancelled", logger.ErrorField(err))
	} else {
		s.logger.ErrorContext(ctx, "Simulation failed", logger.ErrorField(err))
	}
	return result, err
}
