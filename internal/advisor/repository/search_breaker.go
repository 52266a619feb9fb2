package repository

import (
	"context"
	"errors"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"

	"github.com/sony/gobreaker"
)

// breakerSearchRepository trips after consecutive provider failures so a
// dead search backend fails fast instead of eating every query's timeout.
type breakerSearchRepository struct {
	next    SearchRepository
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerSearchRepository wraps next in a circuit breaker.
func NewBreakerSearchRepository(name string, cfg config.Breaker, log *logger.Logger, next SearchRepository) SearchRepository {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:     name,
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Search circuit breaker state changed",
				logger.StringField("name", name),
				logger.StringField("from", from.String()),
				logger.StringField("to", to.String()),
			)
		},
		// A cancelled caller says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &breakerSearchRepository{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (r *breakerSearchRepository) Search(ctx context.Context, query string, opts entity.SearchOptions) (*entity.SearchResponse, error) {
	out, err := r.breaker.Execute(func() (interface{}, error) {
		return r.next.Search(ctx, query, opts)
	})
	if err != nil {
		return nil, err
	}
	return out.(*entity.SearchResponse), nil
}

func minuteLimiterInterval(perMinute int) time.Duration {
	if perMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(perMinute)
}
