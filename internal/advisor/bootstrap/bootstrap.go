// Package bootstrap wires the advisor's repositories and services from
// configuration. Both the CLI and the HTTP service share it.
package bootstrap

import (
	"context"
	"fmt"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/telegram"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/genai"
)

// App holds every long-lived component of the advisor.
type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Metrics    *metrics.Registry
	Notifier   telegram.Notifier
	Resolver   service.TickerResolver
	Analysis   service.AnalysisService
	Simulation service.SimulationService
	Watchlist  service.WatchlistSchedulerService
}

// New builds the App. Clients, caches, limiters and the breaker are
// created once here and shared by every run.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)

	modelClient, err := newModelClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	aiRepo := repository.NewAIRepository(cfg, log, m, modelClient)

	searchRepo, err := newSearchRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	yahooRepo := repository.NewYahooFinanceRepository(cfg, log)
	var priceRepo repository.PriceRepository = yahooRepo
	if cfg.YahooFinance.Provider == "finance_go" {
		priceRepo = repository.NewFinanceGoRepository(log, cfg.YahooFinance.CacheTTL)
	}

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		return nil, err
	}

	resolver := service.NewTickerResolver(yahooRepo, log)
	fetcher := service.NewEvidenceFetcher(cfg, log, m, searchRepo, priceRepo)
	analysis := service.NewAnalysisService(log, m, resolver, aiRepo, fetcher, entity.PipelineMode(cfg.Pipeline.Mode))
	simulation := service.NewSimulationService(cfg, log, m, resolver, aiRepo, fetcher, priceRepo)

	return &App{
		Config:     cfg,
		Logger:     log,
		Metrics:    m,
		Notifier:   notifier,
		Resolver:   resolver,
		Analysis:   analysis,
		Simulation: simulation,
		Watchlist:  service.NewWatchlistSchedulerService(cfg, log, analysis, notifier),
	}, nil
}

func newModelClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.ModelClient, error) {
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		return repository.NewGeminiModelClient(cfg, log, genAiClient), nil
	case "openai":
		maxTokens := cfg.OpenAI.MaxTokens
		temperature := cfg.AI.Temperature
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     cfg.AI.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI chat model: %w", err)
		}
		return repository.NewEinoModelClient("openai", chatModel, cfg.OpenAI.MaxRequestPerMinute, log), nil
	case "deepseek":
		chatModel, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.DeepSeek.APIKey,
			BaseURL:     cfg.DeepSeek.BaseURL,
			Model:       cfg.DeepSeek.Model,
			MaxTokens:   cfg.DeepSeek.MaxTokens,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize DeepSeek chat model: %w", err)
		}
		return repository.NewEinoModelClient("deepseek", chatModel, cfg.DeepSeek.MaxRequestPerMinute, log), nil
	default:
		return nil, fmt.Errorf("invalid AI provider %q", cfg.AI.Provider)
	}
}

func newSearchRepository(cfg *config.Config, log *logger.Logger) (repository.SearchRepository, error) {
	var next repository.SearchRepository
	switch cfg.Search.Provider {
	case "tavily":
		next = repository.NewTavilyRepository(cfg, log)
	case "google_news":
		next = repository.NewGoogleNewsRepository(cfg, log)
	default:
		return nil, fmt.Errorf("invalid search provider %q", cfg.Search.Provider)
	}
	return repository.NewBreakerSearchRepository(cfg.Search.Provider, cfg.Search.Breaker, log, next), nil
}

func newNotifier(cfg *config.Config, log *logger.Logger) (telegram.Notifier, error) {
	if cfg.Telegram.BotToken == "" {
		log.Debug("Telegram bot token not set, notifications disabled")
		return telegram.NewNopNotifier(), nil
	}
	notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
	}
	return notifier, nil
}
