package repository

import (
	"context"
	"fmt"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// financeGoRepository is a PriceRepository backed by piquette/finance-go.
type financeGoRepository struct {
	logger        *logger.Logger
	inmemoryCache *cache.Cache
}

// NewFinanceGoRepository creates a new instance of financeGoRepository.
func NewFinanceGoRepository(log *logger.Logger, cacheTTL time.Duration) PriceRepository {
	if cacheTTL <= 0 {
		cacheTTL = cache.NoExpiration
	}
	return &financeGoRepository{
		logger:        log,
		inmemoryCache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (r *financeGoRepository) Chart(ctx context.Context, ticker string, params ChartParams) ([]entity.PriceQuote, error) {
	cacheKey := fmt.Sprintf("%s:%d:%d", ticker, params.Period1.Unix(), params.Period2.Unix())
	if cached, ok := r.inmemoryCache.Get(cacheKey); ok {
		return cached.([]entity.PriceQuote), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start, end := params.Period1, params.Period2
	iter := chart.Get(&chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	quotes := make([]entity.PriceQuote, 0)
	for iter.Next() {
		bar := iter.Bar()
		closePrice, _ := bar.Close.Float64()
		quotes = append(quotes, entity.PriceQuote{
			Date:  time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close: closePrice,
		})
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to get historical data", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("%w: failed to get historical data for %s: %v", ErrFetchFailed, ticker, err)
	}

	r.inmemoryCache.Set(cacheKey, quotes, cache.DefaultExpiration)
	return quotes, nil
}
