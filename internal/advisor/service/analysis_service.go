package service

import (
	"context"
	"time"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
)

// AnalysisService runs the evidence pipeline once for "now".
type AnalysisService interface {
	// Analyze always returns a result. When a step fails the result carries
	// Success=false and the terminal message, and the typed error is returned too.
	Analyze(ctx context.Context, req entity.AnalysisRequest) (*entity.AnalysisResult, error)
}

type analysisService struct {
	logger      *logger.Logger
	metrics     *metrics.Registry
	resolver    TickerResolver
	aiRepo      repository.AIRepository
	fetcher     EvidenceFetcher
	defaultMode entity.PipelineMode
	now         func() time.Time
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(
	log *logger.Logger,
	m *metrics.Registry,
	resolver TickerResolver,
	aiRepo repository.AIRepository,
	fetcher EvidenceFetcher,
	defaultMode entity.PipelineMode,
) AnalysisService {
	if defaultMode == "" {
		defaultMode = entity.ModeBasic
	}
	return &analysisService{
		logger:      log,
		metrics:     m,
		resolver:    resolver,
		aiRepo:      aiRepo,
		fetcher:     fetcher,
		defaultMode: defaultMode,
		now:         time.Now,
	}
}

func (s *analysisService) Analyze(ctx context.Context, req entity.AnalysisRequest) (*entity.AnalysisResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}
	result := &entity.AnalysisResult{Ticker: req.Ticker, Mode: mode}
	ctx = logger.WithContextFields(ctx,
		logger.StringField("ticker", req.Ticker),
		logger.StringField("mode", string(mode)),
	)

	err := s.run(ctx, mode, result)
	result.GeneratedAt = s.now()
	s.metrics.RecordAnalysis(string(mode), err == nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Analysis failed", logger.ErrorField(err))
		result.Success = false
		result.Error = err.Error()
		return result, err
	}

	result.Success = true
	s.logger.InfoContext(ctx, "Analysis completed",
		logger.StringField("signal", string(result.Signal.Signal)),
		logger.StringField("action", string(result.Signal.Action)),
		logger.IntField("confidence", result.Signal.Confidence),
	)
	return result, nil
}

func (s *analysisService) run(ctx context.Context, mode entity.PipelineMode, result *entity.AnalysisResult) error {
	resolution, err := s.resolver.Resolve(ctx, result.Ticker)
	if err != nil {
		return err
	}
	ticker := resolution.Symbol
	result.Ticker = ticker
	result.Name = resolution.Name

	queries, err := s.aiRepo.PlanQueries(ctx, ticker, nil)
	if err != nil {
		return err
	}
	result.Queries = queries

	evidence, err := s.fetcher.Fetch(ctx, ticker, queries, nil)
	if err != nil {
		return err
	}
	result.Evidence = evidence
	if last, ok := evidence.Prices.Last(); ok {
		result.LastClose = last.Close
	}

	input := repository.SignalInput{LastClose: result.LastClose}
	switch mode {
	case entity.ModeExtended:
		relevance, err := s.aiRepo.AnalyzeRelevance(ctx, ticker, evidence)
		if err != nil {
			return err
		}
		result.Relevance = relevance

		report, err := s.aiRepo.GenerateReport(ctx, ticker, evidence.Prices, relevance)
		if err != nil {
			return err
		}
		result.Report = report
		input.Report = report
	default:
		summary, err := s.aiRepo.Synthesize(ctx, ticker, evidence)
		if err != nil {
			return err
		}
		result.Summary = summary
		input.Summary = summary
	}

	signal, err := s.aiRepo.GenerateSignal(ctx, ticker, input)
	if err != nil {
		return err
	}
	enforced := ApplySignalPolicy(*signal)
	result.Signal = &enforced
	return nil
}
