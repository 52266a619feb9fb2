package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"
)

// EvidenceFetcher gathers search evidence and prices for one pipeline run.
type EvidenceFetcher interface {
	// Fetch issues every planned query concurrently. A failed query is
	// recorded on its slot; only a price failure fails the call.
	Fetch(ctx context.Context, ticker string, queries *entity.QuerySet, asOf *time.Time) (*entity.Evidence, error)
}

type evidenceFetcher struct {
	cfg        *config.Config
	logger     *logger.Logger
	metrics    *metrics.Registry
	searchRepo repository.SearchRepository
	priceRepo  repository.PriceRepository
	now        func() time.Time
}

// NewEvidenceFetcher creates a new EvidenceFetcher.
func NewEvidenceFetcher(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Registry,
	searchRepo repository.SearchRepository,
	priceRepo repository.PriceRepository,
) EvidenceFetcher {
	return &evidenceFetcher{
		cfg:        cfg,
		logger:     log,
		metrics:    m,
		searchRepo: searchRepo,
		priceRepo:  priceRepo,
		now:        time.Now,
	}
}

// SearchWindow returns the inclusive window a category looks back over from anchor.
func SearchWindow(category entity.EvidenceCategory, anchor time.Time) (time.Time, time.Time) {
	start := utils.StartOfDay(anchor).AddDate(0, 0, -category.LookbackDays())
	return start, anchor
}

func (f *evidenceFetcher) Fetch(ctx context.Context, ticker string, queries *entity.QuerySet, asOf *time.Time) (*entity.Evidence, error) {
	if queries == nil {
		queries = &entity.QuerySet{}
	}

	// Historical runs look back from as-of midnight so nothing stamped on
	// the simulated day itself is visible.
	anchor := f.now()
	if asOf != nil {
		anchor = utils.StartOfDay(*asOf)
	}

	evidence := &entity.Evidence{
		Ticker:  ticker,
		AsOf:    asOf,
		Bundles: make([]entity.EvidenceBundle, len(entity.Categories)),
	}

	var wg sync.WaitGroup

	var (
		prices   entity.PriceSeries
		priceErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				priceErr = utils.PanicError(rec)
			}
		}()
		prices, priceErr = f.fetchPrices(ctx, ticker, asOf)
	}()

	for i, category := range entity.Categories {
		start, end := SearchWindow(category, anchor)
		bundle := &evidence.Bundles[i]
		bundle.Category = category
		bundle.WindowStart = start
		bundle.WindowEnd = end

		categoryQueries := queries.ForCategory(category)
		bundle.Results = make([]entity.QueryResult, len(categoryQueries))
		opts := f.searchOptions(category, start, end, asOf != nil)

		for j, query := range categoryQueries {
			wg.Add(1)
			go func(slot *entity.QueryResult, category entity.EvidenceCategory, query string) {
				defer wg.Done()
				defer func() {
					if rec := recover(); rec != nil {
						*slot = entity.QueryResult{Query: query, Error: utils.PanicError(rec).Error()}
					}
				}()
				*slot = f.runQuery(ctx, category, query, opts, start, end)
			}(&bundle.Results[j], category, query)
		}
	}

	wg.Wait()

	if priceErr != nil {
		return nil, entity.NewUpstreamFetchError("price history", priceErr)
	}
	evidence.Prices = prices

	f.logger.DebugContext(ctx, "Evidence fetched",
		logger.StringField("ticker", ticker),
		logger.IntField("queries", queries.Total()),
		logger.IntField("prices", len(prices)),
	)
	return evidence, nil
}

func (f *evidenceFetcher) runQuery(ctx context.Context, category entity.EvidenceCategory, query string, opts entity.SearchOptions, start, end time.Time) entity.QueryResult {
	if ctx.Err() != nil {
		f.metrics.RecordSearch(string(category), common.StatusSkipped)
		return entity.QueryResult{Query: query, Error: ctx.Err().Error()}
	}

	resp, err := f.searchRepo.Search(ctx, query, opts)
	if err != nil {
		f.logger.WarnContext(ctx, "Search query failed",
			logger.ErrorField(err),
			logger.StringField("category", string(category)),
			logger.StringField("query", query),
		)
		f.metrics.RecordSearch(string(category), common.StatusFailed)
		return entity.QueryResult{Query: query, Error: err.Error()}
	}

	f.metrics.RecordSearch(string(category), common.StatusSuccess)
	return entity.QueryResult{
		Query:     query,
		Response:  FilterByPublishedDate(DeduplicateResponse(resp), start, end),
		Succeeded: true,
	}
}

func (f *evidenceFetcher) searchOptions(category entity.EvidenceCategory, start, end time.Time, historical bool) entity.SearchOptions {
	opts := entity.SearchOptions{
		Topic:       "news",
		SearchDepth: "basic",
		StartDate:   &start,
		EndDate:     &end,
	}
	switch category {
	case entity.CategoryMonthly:
		opts.Topic = "finance"
	case entity.CategoryEarnings:
		opts.Topic = "finance"
		opts.SearchDepth = "advanced"
	}
	if !historical {
		switch category {
		case entity.CategoryRecent:
			opts.TimeRange = "day"
		case entity.CategoryWeekly:
			opts.TimeRange = "week"
		case entity.CategoryMonthly:
			opts.TimeRange = "month"
		}
	}
	return opts
}

// fetchPrices covers the configured history in one-shot mode and only the
// days around asOf in simulation mode. Quotes after the as-of day are
// dropped so a simulated day never sees a later close.
func (f *evidenceFetcher) fetchPrices(ctx context.Context, ticker string, asOf *time.Time) (entity.PriceSeries, error) {
	var params repository.ChartParams
	if asOf != nil {
		params = repository.ChartParams{
			Period1:  asOf.AddDate(0, 0, -1),
			Period2:  asOf.AddDate(0, 0, 1),
			Interval: "1d",
		}
	} else {
		start, err := time.Parse(utils.DateLayout, f.cfg.Pipeline.PriceHistoryStart)
		if err != nil {
			return nil, fmt.Errorf("invalid price history start: %w", err)
		}
		params = repository.ChartParams{Period1: start, Period2: f.now(), Interval: "1d"}
	}

	quotes, err := f.priceRepo.Chart(ctx, ticker, params)
	if err != nil {
		return nil, err
	}
	series := entity.NewPriceSeries(quotes)
	if asOf == nil {
		return series, nil
	}

	cutoff := utils.StartOfDay(*asOf).AddDate(0, 0, 1)
	known := make(entity.PriceSeries, 0, len(series))
	for _, q := range series {
		if q.Date.Before(cutoff) {
			known = append(known, q)
		}
	}
	return known, nil
}
