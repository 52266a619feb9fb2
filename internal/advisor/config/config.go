package config

import (
	"fmt"
	"time"

	"golang-stock-advisor/pkg/config"
)

// AI holds configuration for AI providers.
type AI struct {
	Provider       string        `mapstructure:"provider"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Temperature    float32       `mapstructure:"temperature"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// OpenAI holds the configuration for OpenAI compatible chat models.
type OpenAI struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxTokens           int    `mapstructure:"max_tokens"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// DeepSeek holds the configuration for the DeepSeek API.
type DeepSeek struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxTokens           int    `mapstructure:"max_tokens"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Tavily holds the configuration for the Tavily search API.
type Tavily struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	MaxResults          int           `mapstructure:"max_results"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// GoogleNews holds the configuration for the Google News RSS search provider.
type GoogleNews struct {
	BaseURL             string        `mapstructure:"base_url"`
	QueryParams         string        `mapstructure:"query_params"`
	MaxResults          int           `mapstructure:"max_results"`
	FetchArticles       bool          `mapstructure:"fetch_articles"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Breaker holds circuit breaker settings for the search provider.
type Breaker struct {
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// Search holds configuration for the web/news search provider.
type Search struct {
	Provider   string     `mapstructure:"provider"`
	Tavily     Tavily     `mapstructure:"tavily"`
	GoogleNews GoogleNews `mapstructure:"google_news"`
	Breaker    Breaker    `mapstructure:"breaker"`
}

// YahooFinance holds the configuration for the Yahoo Finance APIs.
type YahooFinance struct {
	Provider            string        `mapstructure:"provider"`
	ChartBaseURL        string        `mapstructure:"chart_base_url"`
	SearchBaseURL       string        `mapstructure:"search_base_url"`
	SearchQuotesCount   int           `mapstructure:"search_quotes_count"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// Pipeline holds configuration for the evidence pipeline.
type Pipeline struct {
	Mode              string `mapstructure:"mode"`
	PriceHistoryStart string `mapstructure:"price_history_start"`
}

// Simulation holds the default parameters of a simulation run.
type Simulation struct {
	InitialCash   float64 `mapstructure:"initial_cash"`
	InitialShares int64   `mapstructure:"initial_shares"`
	TradeSize     int64   `mapstructure:"trade_size"`
	MaxDays       int     `mapstructure:"max_days"`
}

// Watchlist holds configuration for scheduled analyses.
type Watchlist struct {
	Enabled  bool     `mapstructure:"enabled"`
	Schedule string   `mapstructure:"schedule"`
	Tickers  []string `mapstructure:"tickers"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the advisor.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	API          config.API    `mapstructure:"api"`
	AI           AI            `mapstructure:"ai"`
	Gemini       Gemini        `mapstructure:"gemini"`
	OpenAI       OpenAI        `mapstructure:"openai"`
	DeepSeek     DeepSeek      `mapstructure:"deepseek"`
	Search       Search        `mapstructure:"search"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Pipeline     Pipeline      `mapstructure:"pipeline"`
	Simulation   Simulation    `mapstructure:"simulation"`
	Watchlist    Watchlist     `mapstructure:"watchlist"`
	Telegram     Telegram      `mapstructure:"telegram"`
}

// Defaults returns the default value of every known key.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":    "stock-advisor",
		"app.env":     "development",
		"app.version": "0.1.0",

		"logger.level":    "info",
		"logger.encoding": "json",

		"api.host": "0.0.0.0",
		"api.port": 8080,

		"ai.provider":        "gemini",
		"ai.request_timeout": 2 * time.Minute,
		"ai.temperature":     0.2,

		"gemini.api_key":                "",
		"gemini.model":                  "gemini-2.5-flash",
		"gemini.max_request_per_minute": 15,
		"gemini.max_token_per_minute":   1000000,

		"openai.api_key":                "",
		"openai.base_url":               "https://api.openai.com/v1",
		"openai.model":                  "gpt-4o-mini",
		"openai.max_tokens":             4096,
		"openai.max_request_per_minute": 60,

		"deepseek.api_key":                "",
		"deepseek.base_url":               "https://api.deepseek.com",
		"deepseek.model":                  "deepseek-chat",
		"deepseek.max_tokens":             4096,
		"deepseek.max_request_per_minute": 60,

		"search.provider":                           "tavily",
		"search.tavily.api_key":                     "",
		"search.tavily.base_url":                    "https://api.tavily.com",
		"search.tavily.max_results":                 5,
		"search.tavily.timeout":                     30 * time.Second,
		"search.tavily.max_request_per_minute":      100,
		"search.google_news.base_url":               "https://news.google.com/rss/search",
		"search.google_news.query_params":           "hl=en-US&gl=US&ceid=US:en",
		"search.google_news.max_results":            8,
		"search.google_news.fetch_articles":         false,
		"search.google_news.timeout":                20 * time.Second,
		"search.google_news.max_request_per_minute": 60,
		"search.breaker.consecutive_failures":       5,
		"search.breaker.interval":                   time.Minute,
		"search.breaker.timeout":                    30 * time.Second,

		"yahoo_finance.provider":               "http",
		"yahoo_finance.chart_base_url":         "https://query1.finance.yahoo.com",
		"yahoo_finance.search_base_url":        "https://query2.finance.yahoo.com",
		"yahoo_finance.search_quotes_count":    10,
		"yahoo_finance.timeout":                15 * time.Second,
		"yahoo_finance.max_request_per_minute": 120,
		"yahoo_finance.cache_ttl":              10 * time.Minute,

		"pipeline.mode":                "basic",
		"pipeline.price_history_start": "2024-01-01",

		"simulation.initial_cash":   10000.0,
		"simulation.initial_shares": 0,
		"simulation.trade_size":     100,
		"simulation.max_days":       260,

		"watchlist.enabled":  false,
		"watchlist.schedule": "30 21 * * MON-FRI",
		"watchlist.tickers":  []string{},

		"telegram.bot_token": "",
		"telegram.chat_id":   0,
	}
}

// Validate rejects configurations the advisor cannot run with.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "openai", "deepseek":
	default:
		return fmt.Errorf("unsupported ai.provider %q", c.AI.Provider)
	}
	switch c.Search.Provider {
	case "tavily", "google_news":
	default:
		return fmt.Errorf("unsupported search.provider %q", c.Search.Provider)
	}
	switch c.YahooFinance.Provider {
	case "http", "finance_go":
	default:
		return fmt.Errorf("unsupported yahoo_finance.provider %q", c.YahooFinance.Provider)
	}
	switch c.Pipeline.Mode {
	case "basic", "extended":
	default:
		return fmt.Errorf("unsupported pipeline.mode %q", c.Pipeline.Mode)
	}
	if _, err := time.Parse("2006-01-02", c.Pipeline.PriceHistoryStart); err != nil {
		return fmt.Errorf("invalid pipeline.price_history_start: %w", err)
	}
	if c.Simulation.TradeSize <= 0 {
		return fmt.Errorf("simulation.trade_size must be positive")
	}
	if c.Simulation.InitialCash < 0 || c.Simulation.InitialShares < 0 {
		return fmt.Errorf("simulation initial cash and shares must not be negative")
	}
	return nil
}

// Load loads the advisor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
