package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

type stubTickerRepo struct {
	quotes []entity.SymbolQuote
	err    error
	calls  int
}

func (s *stubTickerRepo) SearchSymbols(context.Context, string) ([]entity.SymbolQuote, error) {
	s.calls++
	return s.quotes, s.err
}

func knownTicker(symbol string) *stubTickerRepo {
	return &stubTickerRepo{quotes: []entity.SymbolQuote{{Symbol: symbol, LongName: symbol + " Inc."}}}
}

// stubPriceRepo returns quotes; with inWindow set only those inside
// [Period1, Period2]. failWhen fails selected requests.
type stubPriceRepo struct {
	mu       sync.Mutex
	quotes   []entity.PriceQuote
	err      error
	inWindow bool
	failWhen func(repository.ChartParams) error
	params   []repository.ChartParams
}

func (s *stubPriceRepo) Chart(_ context.Context, _ string, params repository.ChartParams) ([]entity.PriceQuote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = append(s.params, params)
	if s.failWhen != nil {
		if err := s.failWhen(params); err != nil {
			return nil, err
		}
	}
	if !s.inWindow {
		return s.quotes, s.err
	}
	out := make([]entity.PriceQuote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if !q.Date.Before(params.Period1) && !q.Date.After(params.Period2) {
			out = append(out, q)
		}
	}
	return out, s.err
}

// stubSearchRepo answers by query text; unknown queries fail.
type stubSearchRepo struct {
	mu        sync.Mutex
	responses map[string]*entity.SearchResponse
	queries   []string
}

func (s *stubSearchRepo) Search(_ context.Context, query string, _ entity.SearchOptions) (*entity.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	resp, ok := s.responses[query]
	if !ok {
		return nil, errors.New("search provider unavailable")
	}
	return resp, nil
}

// stubAIRepo returns fixed answers; failOn makes a step fail for the listed as-of days.
type stubAIRepo struct {
	mu        sync.Mutex
	queries   entity.QuerySet
	summary   []string
	signal    entity.TradingSignal
	report    entity.ResearchReport
	relevance []entity.QueryRelevance
	failOn    map[string]error
	signalFor func(asOf *time.Time) entity.TradingSignal
	asOfSeen  []time.Time
}

func newStubAIRepo(signal entity.TradingSignal) *stubAIRepo {
	return &stubAIRepo{
		queries: entity.QuerySet{Recent: []string{"recent news"}, Weekly: []string{"weekly news"}, Monthly: []string{"monthly news"}},
		summary: []string{"steady business"},
		signal:  signal,
		report: entity.ResearchReport{
			ExecutiveSummary: "s", Performance: "p", Fundamentals: "f", Sentiment: "n",
			Risks: []string{"competition"}, CompetitivePosition: "c", Conclusion: "x",
		},
		failOn: map[string]error{},
	}
}

func (s *stubAIRepo) fail(step string, asOf *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := step
	if asOf != nil {
		key = step + "@" + asOf.Format("2006-01-02")
	}
	if err, ok := s.failOn[key]; ok {
		return err
	}
	return s.failOn[step]
}

func (s *stubAIRepo) PlanQueries(_ context.Context, _ string, asOf *time.Time) (*entity.QuerySet, error) {
	if asOf != nil {
		s.mu.Lock()
		s.asOfSeen = append(s.asOfSeen, *asOf)
		s.mu.Unlock()
	}
	if err := s.fail(repository.StepPlanQueries, asOf); err != nil {
		return nil, entity.NewModelOutputError(repository.StepPlanQueries, err)
	}
	q := s.queries
	return &q, nil
}

func (s *stubAIRepo) Synthesize(_ context.Context, _ string, evidence *entity.Evidence) ([]string, error) {
	if err := s.fail(repository.StepSynthesize, evidence.AsOf); err != nil {
		return nil, entity.NewModelOutputError(repository.StepSynthesize, err)
	}
	return s.summary, nil
}

func (s *stubAIRepo) GenerateSignal(_ context.Context, _ string, input repository.SignalInput) (*entity.TradingSignal, error) {
	if err := s.fail(repository.StepGenerateSignal, input.AsOf); err != nil {
		return nil, entity.NewModelOutputError(repository.StepGenerateSignal, err)
	}
	signal := s.signal
	if s.signalFor != nil {
		signal = s.signalFor(input.AsOf)
	}
	return &signal, nil
}

func (s *stubAIRepo) AnalyzeRelevance(context.Context, string, *entity.Evidence) ([]entity.QueryRelevance, error) {
	if err := s.fail(repository.StepAnalyzeRelevance, nil); err != nil {
		return nil, entity.NewModelOutputError(repository.StepAnalyzeRelevance, err)
	}
	return s.relevance, nil
}

func (s *stubAIRepo) GenerateReport(context.Context, string, entity.PriceSeries, []entity.QueryRelevance) (*entity.ResearchReport, error) {
	if err := s.fail(repository.StepGenerateReport, nil); err != nil {
		return nil, entity.NewModelOutputError(repository.StepGenerateReport, err)
	}
	r := s.report
	return &r, nil
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Pipeline.PriceHistoryStart = "2024-01-01"
	cfg.Simulation.MaxDays = 260
	return cfg
}
