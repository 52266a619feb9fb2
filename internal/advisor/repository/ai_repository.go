package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

const maxSummaryBullets = 10

// aiRepository implements every model-backed step on top of a ModelClient and
// validates what comes back before handing it to the pipeline.
type aiRepository struct {
	client   ModelClient
	cfg      *config.Config
	logger   *logger.Logger
	metrics  *metrics.Registry
	validate *validator.Validate
}

// NewAIRepository creates a new instance of aiRepository.
func NewAIRepository(cfg *config.Config, log *logger.Logger, m *metrics.Registry, client ModelClient) AIRepository {
	return &aiRepository{
		client:   client,
		cfg:      cfg,
		logger:   log,
		metrics:  m,
		validate: validator.New(),
	}
}

func (r *aiRepository) PlanQueries(ctx context.Context, ticker string, asOf *time.Time) (*entity.QuerySet, error) {
	prompt := BuildQueryPlanPrompt(ticker, asOf)

	var queries entity.QuerySet
	if err := r.generate(ctx, prompt, &queries); err != nil {
		return nil, err
	}

	queries.Recent = cleanList(queries.Recent, entity.CategoryRecent.MaxQueries())
	queries.Weekly = cleanList(queries.Weekly, entity.CategoryWeekly.MaxQueries())
	queries.Monthly = cleanList(queries.Monthly, entity.CategoryMonthly.MaxQueries())
	queries.Earnings = cleanList(queries.Earnings, entity.CategoryEarnings.MaxQueries())

	if err := r.validate.Struct(queries); err != nil {
		return nil, entity.NewModelOutputError(prompt.Step, fmt.Errorf("invalid query plan: %w", err))
	}
	// An empty category only leaves its bundle empty; an empty plan has
	// nothing to fetch.
	if queries.Total() == 0 {
		return nil, entity.NewModelOutputError(prompt.Step, fmt.Errorf("invalid query plan: %w", entity.ErrEmptyModelOutput))
	}
	return &queries, nil
}

func (r *aiRepository) Synthesize(ctx context.Context, ticker string, evidence *entity.Evidence) ([]string, error) {
	prompt := BuildSynthesisPrompt(ticker, evidence)

	var out struct {
		Summary []string `json:"summary"`
	}
	if err := r.generate(ctx, prompt, &out); err != nil {
		return nil, err
	}

	summary := cleanList(out.Summary, maxSummaryBullets)
	if len(summary) == 0 {
		return nil, entity.NewModelOutputError(prompt.Step, entity.ErrEmptyModelOutput)
	}
	return summary, nil
}

func (r *aiRepository) GenerateSignal(ctx context.Context, ticker string, input SignalInput) (*entity.TradingSignal, error) {
	prompt := BuildSignalPrompt(ticker, input)

	var signal entity.TradingSignal
	if err := r.generate(ctx, prompt, &signal); err != nil {
		return nil, err
	}

	signal.Signal = entity.SignalDirection(strings.ToLower(strings.TrimSpace(string(signal.Signal))))
	signal.Action = entity.TradeAction(strings.ToLower(strings.TrimSpace(string(signal.Action))))
	signal.TimeHorizon = entity.TimeHorizon(strings.ToLower(strings.TrimSpace(string(signal.TimeHorizon))))
	signal.Reason = strings.TrimSpace(signal.Reason)

	// Numeric bounds are enforced by the signal policy, not rejected here.
	if err := r.validate.StructExcept(signal, "Confidence", "Stocks"); err != nil {
		return nil, entity.NewModelOutputError(prompt.Step, fmt.Errorf("invalid trading signal: %w", err))
	}
	return &signal, nil
}

func (r *aiRepository) AnalyzeRelevance(ctx context.Context, ticker string, evidence *entity.Evidence) ([]entity.QueryRelevance, error) {
	if !hasResults(evidence) {
		return []entity.QueryRelevance{}, nil
	}

	prompt := BuildRelevancePrompt(ticker, evidence)

	var out struct {
		Analyses []entity.QueryRelevance `json:"analyses"`
	}
	if err := r.generate(ctx, prompt, &out); err != nil {
		return nil, err
	}

	for i := range out.Analyses {
		a := &out.Analyses[i]
		a.Category = entity.EvidenceCategory(strings.ToLower(strings.TrimSpace(string(a.Category))))
		a.Sentiment = strings.ToLower(strings.TrimSpace(a.Sentiment))
		a.KeyPoints = cleanList(a.KeyPoints, 5)
		if err := r.validate.Struct(a); err != nil {
			return nil, entity.NewModelOutputError(prompt.Step, fmt.Errorf("invalid relevance analysis for %q: %w", a.Query, err))
		}
	}
	return out.Analyses, nil
}

func (r *aiRepository) GenerateReport(ctx context.Context, ticker string, prices entity.PriceSeries, relevance []entity.QueryRelevance) (*entity.ResearchReport, error) {
	prompt := BuildReportPrompt(ticker, prices, relevance)

	var report entity.ResearchReport
	if err := r.generate(ctx, prompt, &report); err != nil {
		return nil, err
	}

	report.Risks = cleanList(report.Risks, 0)
	if err := r.validate.Struct(report); err != nil {
		return nil, entity.NewModelOutputError(prompt.Step, fmt.Errorf("invalid research report: %w", err))
	}
	return &report, nil
}

// generate runs one model call and decodes its JSON answer into out. Every
// failure is reported as a ModelOutputError for the prompt's step.
func (r *aiRepository) generate(ctx context.Context, prompt StructuredPrompt, out interface{}) (err error) {
	timer := r.metrics.StartStepTimer(prompt.Step)
	defer func() { timer.Stop(err) }()

	if r.cfg.AI.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.AI.RequestTimeout)
		defer cancel()
	}

	raw, err := r.client.GenerateJSON(ctx, prompt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Model call failed", logger.ErrorField(err), logger.StringField("step", prompt.Step))
		return entity.NewModelOutputError(prompt.Step, err)
	}

	if err = decodeModelJSON(raw, out); err != nil {
		r.logger.ErrorContext(ctx, "Failed to decode model output",
			logger.ErrorField(err),
			logger.StringField("step", prompt.Step),
			logger.StringField("raw", raw),
		)
		return entity.NewModelOutputError(prompt.Step, err)
	}
	return nil
}

func decodeModelJSON(raw string, out interface{}) error {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`json\n`")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.ErrEmptyModelOutput
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to unmarshal model output: %w", err)
	}
	return nil
}

// cleanList trims every entry, drops empty ones and keeps at most max (all when max <= 0).
func cleanList(items []string, max int) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

func hasResults(evidence *entity.Evidence) bool {
	if evidence == nil {
		return false
	}
	for _, bundle := range evidence.Bundles {
		if bundle.ItemCount() > 0 {
			return true
		}
	}
	return false
}
