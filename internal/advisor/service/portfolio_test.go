package service

import (
	"testing"

	"golang-stock-advisor/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestPortfolioBuyGuard(t *testing.T) {
	p := NewPortfolio(10000, 0)

	res := p.Execute(entity.ActionBuy, 100, 105)
	assert.Equal(t, entity.ActionHold, res.Action)
	assert.Zero(t, res.Traded)
	assert.Equal(t, 10000.0, p.Cash())
	assert.Zero(t, p.Shares())

	res = p.Execute(entity.ActionBuy, 100, 100)
	assert.Equal(t, entity.ActionBuy, res.Action)
	assert.EqualValues(t, 100, res.Traded)
	assert.Equal(t, 0.0, p.Cash())
	assert.EqualValues(t, 100, p.Shares())
}

func TestPortfolioSellIsCappedBySharesHeld(t *testing.T) {
	p := NewPortfolio(0, 30)

	res := p.Execute(entity.ActionSell, 100, 10.1)
	assert.Equal(t, entity.ActionSell, res.Action)
	assert.EqualValues(t, -30, res.Traded)
	assert.Zero(t, p.Shares())
	assert.Equal(t, 303.0, p.Cash())

	res = p.Execute(entity.ActionSell, 100, 10.1)
	assert.Equal(t, entity.ActionHold, res.Action)
	assert.Zero(t, res.Traded)
}

func TestPortfolioShortAndCoverAreDowngraded(t *testing.T) {
	p := NewPortfolio(1000, 10)
	for _, a := range []entity.TradeAction{entity.ActionShort, entity.ActionCover} {
		res := p.Execute(a, 5, 10)
		assert.Equal(t, entity.ActionHold, res.Action)
		assert.Zero(t, res.Traded)
		assert.Contains(t, res.Note, string(a))
	}
	assert.Equal(t, 1000.0, p.Cash())
	assert.EqualValues(t, 10, p.Shares())
}

func TestPortfolioNeverGoesNegative(t *testing.T) {
	p := NewPortfolio(1234.56, 3)
	prices := []float64{10.01, 99.99, 0.37, 1234.5, 7.77, 50}
	actions := []entity.TradeAction{entity.ActionBuy, entity.ActionSell, entity.ActionBuy, entity.ActionBuy, entity.ActionSell, entity.ActionHold}

	for i := 0; i < 200; i++ {
		p.Execute(actions[i%len(actions)], int64(i%17+1), prices[i%len(prices)])
		assert.GreaterOrEqual(t, p.Cash(), 0.0)
		assert.GreaterOrEqual(t, p.Shares(), int64(0))
	}
}

func TestPortfolioDecimalCash(t *testing.T) {
	p := NewPortfolio(0.3, 0)
	for i := 0; i < 3; i++ {
		p.Execute(entity.ActionBuy, 1, 0.1)
	}
	assert.Equal(t, 0.0, p.Cash())
	assert.EqualValues(t, 3, p.Shares())
	assert.InDelta(t, 0.3, p.Value(0.1), 1e-12)
}

func TestEffectiveAction(t *testing.T) {
	action, note := EffectiveAction(TradeResult{Action: entity.ActionHold}, 0, nil)
	assert.Empty(t, action)
	assert.Equal(t, entity.NoPositionNote, note)

	action, _ = EffectiveAction(TradeResult{Action: entity.ActionHold}, 5, nil)
	assert.Equal(t, "hold", action)

	action, _ = EffectiveAction(TradeResult{Action: entity.ActionHold}, 0, assert.AnError)
	assert.Equal(t, "hold", action)

	action, note = EffectiveAction(TradeResult{Action: entity.ActionSell, Traded: -5}, 0, nil)
	assert.Equal(t, "sell", action)
	assert.Empty(t, note)
}
