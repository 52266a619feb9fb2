package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYahooTestConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.YahooFinance.ChartBaseURL = url
	cfg.YahooFinance.SearchBaseURL = url
	cfg.YahooFinance.Timeout = 5 * time.Second
	cfg.YahooFinance.CacheTTL = time.Minute
	return cfg
}

func TestYahooSearchSymbolsIsCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/finance/search", r.URL.Path)
		assert.Equal(t, "APPL", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quotes":[{"symbol":"AAPL","shortname":"Apple Inc.","exchange":"NMS","quoteType":"EQUITY"},{"symbol":"APLE"}]}`))
	}))
	defer srv.Close()

	repo := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop())
	for i := 0; i < 2; i++ {
		quotes, err := repo.SearchSymbols(context.Background(), "APPL")
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		assert.Equal(t, "AAPL", quotes[0].Symbol)
		assert.Equal(t, "Apple Inc.", quotes[0].ShortName)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestYahooSearchSymbolsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop()).SearchSymbols(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestYahooChartSkipsNullCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"AAPL"},
			"timestamp":[1709290200,1709549400,1709635800],
			"indicators":{"quote":[{"close":[179.66,null,170.12]}]}}],"error":null}}`))
	}))
	defer srv.Close()

	quotes, err := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop()).Chart(context.Background(), "AAPL", ChartParams{
		Period1: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Period2: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, 179.66, quotes[0].Close)
	assert.Equal(t, 170.12, quotes[1].Close)
}

func TestYahooChartNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop()).Chart(context.Background(), "ZZZZ", ChartParams{
		Period1: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Period2: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
