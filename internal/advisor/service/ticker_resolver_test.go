package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExactMatch(t *testing.T) {
	repo := &stubTickerRepo{quotes: []entity.SymbolQuote{
		{Symbol: "AAPL", LongName: "Apple Inc."},
		{Symbol: "AAPLW"},
	}}

	res, err := NewTickerResolver(repo, logger.NewNop()).Resolve(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, "Apple Inc.", res.Name)
	assert.Equal(t, 1, repo.calls)
}

func TestResolveTypoListsSuggestions(t *testing.T) {
	repo := &stubTickerRepo{quotes: []entity.SymbolQuote{{Symbol: "AAPL"}, {Symbol: "AAPLW"}}}

	res, err := NewTickerResolver(repo, logger.NewNop()).Resolve(context.Background(), "APPL")
	require.Error(t, err)
	assert.True(t, entity.IsValidationError(err))
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"AAPL", "AAPLW"}, res.Suggestions)
	assert.Contains(t, err.Error(), "AAPL")
	assert.Contains(t, err.Error(), "AAPLW")
}

func TestResolveIsCaseSensitive(t *testing.T) {
	repo := &stubTickerRepo{quotes: []entity.SymbolQuote{{Symbol: "AAPL"}}}
	res, err := NewTickerResolver(repo, logger.NewNop()).Resolve(context.Background(), "aapl")
	require.Error(t, err)
	assert.Equal(t, []string{"AAPL"}, res.Suggestions)
}

func TestResolveSuggestionsAreCapped(t *testing.T) {
	repo := &stubTickerRepo{quotes: []entity.SymbolQuote{{Symbol: "A1"}, {Symbol: "A2"}, {Symbol: "A3"}, {Symbol: "A4"}}}
	res, _ := NewTickerResolver(repo, logger.NewNop()).Resolve(context.Background(), "A")
	assert.Len(t, res.Suggestions, 3)
}

func TestResolveNoCandidates(t *testing.T) {
	_, err := NewTickerResolver(&stubTickerRepo{}, logger.NewNop()).Resolve(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestResolveLookupErrors(t *testing.T) {
	r := NewTickerResolver(&stubTickerRepo{err: fmt.Errorf("%w: timeout", repository.ErrFetchFailed)}, logger.NewNop())
	_, err := r.Resolve(context.Background(), "AAPL")
	assert.True(t, entity.IsValidationError(err))
	assert.Contains(t, err.Error(), "not found or lookup unavailable")

	r = NewTickerResolver(&stubTickerRepo{err: errors.New("tls handshake")}, logger.NewNop())
	_, err = r.Resolve(context.Background(), "AAPL")
	assert.Contains(t, err.Error(), "failed to validate")
}

func TestResolveEmptyInputSkipsLookup(t *testing.T) {
	repo := &stubTickerRepo{}
	_, err := NewTickerResolver(repo, logger.NewNop()).Resolve(context.Background(), "  ")
	assert.True(t, entity.IsValidationError(err))
	assert.Zero(t, repo.calls)
}
