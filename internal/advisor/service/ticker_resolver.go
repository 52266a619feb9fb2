package service

import (
	"context"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
)

const maxTickerSuggestions = 3

// TickerResolver validates user supplied symbols against the lookup service.
type TickerResolver interface {
	Resolve(ctx context.Context, input string) (*entity.TickerResolution, error)
}

type tickerResolver struct {
	tickerRepo repository.TickerRepository
	logger     *logger.Logger
}

// NewTickerResolver creates a new TickerResolver.
func NewTickerResolver(tickerRepo repository.TickerRepository, log *logger.Logger) TickerResolver {
	return &tickerResolver{tickerRepo: tickerRepo, logger: log}
}

// Resolve performs a single lookup. The returned resolution is always
// populated; a non-nil error is a ValidationError carrying the same message.
func (r *tickerResolver) Resolve(ctx context.Context, input string) (*entity.TickerResolution, error) {
	symbol := strings.TrimSpace(input)
	res := &entity.TickerResolution{Input: input}
	if symbol == "" {
		res.Message = "ticker is required"
		return res, entity.NewValidationError("ticker", res.Message, nil)
	}

	quotes, err := r.tickerRepo.SearchSymbols(ctx, symbol)
	if err != nil {
		r.logger.WarnContext(ctx, "Ticker lookup failed", logger.ErrorField(err), logger.StringField("ticker", symbol))
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "not found") || strings.Contains(msg, "fetch failed") {
			res.Message = fmt.Sprintf("ticker %q not found or lookup unavailable", symbol)
		} else {
			res.Message = fmt.Sprintf("failed to validate ticker %q", symbol)
		}
		return res, entity.NewValidationError("ticker", res.Message, err)
	}

	for _, q := range quotes {
		if q.Symbol == symbol {
			res.Valid = true
			res.Symbol = q.Symbol
			res.Name = q.LongName
			if res.Name == "" {
				res.Name = q.ShortName
			}
			return res, nil
		}
	}

	if len(quotes) == 0 {
		res.Message = fmt.Sprintf("ticker %q not found", symbol)
		return res, entity.NewValidationError("ticker", res.Message, nil)
	}

	for _, q := range quotes {
		if q.Symbol == "" {
			continue
		}
		res.Suggestions = append(res.Suggestions, q.Symbol)
		if len(res.Suggestions) == maxTickerSuggestions {
			break
		}
	}
	res.Message = fmt.Sprintf("ticker %q not found, did you mean: %s", symbol, strings.Join(res.Suggestions, ", "))
	return res, entity.NewValidationError("ticker", res.Message, nil)
}
