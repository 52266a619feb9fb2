package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound is returned when Yahoo Finance knows nothing about a symbol.
	ErrNotFound = errors.New("not found")
	// ErrFetchFailed is returned when Yahoo Finance could not be reached or answered with an error.
	ErrFetchFailed = errors.New("fetch failed")
)

// YahooFinanceRepository serves both symbol lookup and price history.
type YahooFinanceRepository interface {
	TickerRepository
	PriceRepository
}

type yahooSearchResponse struct {
	Quotes []entity.SymbolQuote `json:"quotes"`
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol string `json:"symbol"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooFinanceRepository talks to the public Yahoo Finance JSON endpoints.
type yahooFinanceRepository struct {
	chartClient    *resty.Client
	searchClient   *resty.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	inmemoryCache  *cache.Cache
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	newClient := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(cfg.YahooFinance.Timeout).
			SetHeader("User-Agent", common.DefaultUserAgent).
			SetHeader("Accept", "application/json, text/plain, */*")
	}

	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if every := minuteLimiterInterval(cfg.YahooFinance.MaxRequestPerMinute); every > 0 {
		requestLimiter = rate.NewLimiter(rate.Every(every), 1)
	}

	ttl := cfg.YahooFinance.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	return &yahooFinanceRepository{
		chartClient:    newClient(cfg.YahooFinance.ChartBaseURL),
		searchClient:   newClient(cfg.YahooFinance.SearchBaseURL),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		inmemoryCache:  cache.New(ttl, 2*ttl),
	}
}

func (r *yahooFinanceRepository) SearchSymbols(ctx context.Context, query string) ([]entity.SymbolQuote, error) {
	cacheKey := "search:" + query
	if cached, ok := r.inmemoryCache.Get(cacheKey); ok {
		return cached.([]entity.SymbolQuote), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	count := r.cfg.YahooFinance.SearchQuotesCount
	if count <= 0 {
		count = 10
	}

	var body yahooSearchResponse
	resp, err := r.searchClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           query,
			"quotesCount": strconv.Itoa(count),
			"newsCount":   "0",
		}).
		SetResult(&body).
		Get("/v1/finance/search")
	if err != nil {
		r.logger.Error("Failed to search Yahoo Finance symbols", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("symbol %s %w", query, ErrNotFound)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrFetchFailed, resp.StatusCode())
	}

	quotes := body.Quotes
	if quotes == nil {
		quotes = []entity.SymbolQuote{}
	}
	r.inmemoryCache.Set(cacheKey, quotes, cache.DefaultExpiration)
	return quotes, nil
}

func (r *yahooFinanceRepository) Chart(ctx context.Context, ticker string, params ChartParams) ([]entity.PriceQuote, error) {
	interval := params.Interval
	if interval == "" {
		interval = "1d"
	}
	period1 := strconv.FormatInt(params.Period1.Unix(), 10)
	period2 := strconv.FormatInt(params.Period2.Unix(), 10)

	cacheKey := fmt.Sprintf("chart:%s:%s:%s:%s", ticker, period1, period2, interval)
	if cached, ok := r.inmemoryCache.Get(cacheKey); ok {
		return cached.([]entity.PriceQuote), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	var body yahooChartResponse
	resp, err := r.chartClient.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(map[string]string{
			"period1":  period1,
			"period2":  period2,
			"interval": interval,
			"events":   "history",
		}).
		SetResult(&body).
		SetError(&body).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		r.logger.Error("Failed to fetch Yahoo Finance chart", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if body.Chart.Error != nil {
		if resp.StatusCode() == http.StatusNotFound || body.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("symbol %s %w: %s", ticker, ErrNotFound, body.Chart.Error.Description)
		}
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, body.Chart.Error.Description)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrFetchFailed, resp.StatusCode())
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("symbol %s %w", ticker, ErrNotFound)
	}

	result := body.Chart.Result[0]
	var closes []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}

	quotes := make([]entity.PriceQuote, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		quotes = append(quotes, entity.PriceQuote{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	r.inmemoryCache.Set(cacheKey, quotes, cache.DefaultExpiration)
	return quotes, nil
}
