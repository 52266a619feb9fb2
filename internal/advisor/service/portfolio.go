package service

import (
	"fmt"

	"golang-stock-advisor/internal/entity"

	"github.com/shopspring/decimal"
)

const unsupportedActionNote = "%s is not supported, held instead"

// Portfolio is the cash and share state threaded through a simulation.
// Cash is kept as a decimal so repeated trades do not drift.
type Portfolio struct {
	cash   decimal.Decimal
	shares int64
}

// NewPortfolio creates a portfolio. Negative inputs are treated as zero.
func NewPortfolio(cash float64, shares int64) *Portfolio {
	if cash < 0 {
		cash = 0
	}
	if shares < 0 {
		shares = 0
	}
	return &Portfolio{cash: decimal.NewFromFloat(cash), shares: shares}
}

// TradeResult is what a trade actually did.
type TradeResult struct {
	Action entity.TradeAction
	// Traded is signed: negative for sells, positive for buys.
	Traded int64
	Note   string
}

func (p *Portfolio) Cash() float64 {
	f, _ := p.cash.Float64()
	return f
}

func (p *Portfolio) Shares() int64 { return p.shares }

// Value marks the portfolio to price.
func (p *Portfolio) Value(price float64) float64 {
	v, _ := p.cash.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(p.shares))).Float64()
	return v
}

// Execute applies action at price for a fixed size of quantity shares.
// Actions that cannot be honored are downgraded to hold.
func (p *Portfolio) Execute(action entity.TradeAction, quantity int64, price float64) TradeResult {
	if quantity <= 0 || price <= 0 {
		return TradeResult{Action: entity.ActionHold}
	}

	px := decimal.NewFromFloat(price)
	switch action {
	case entity.ActionBuy:
		cost := px.Mul(decimal.NewFromInt(quantity))
		if p.cash.LessThan(cost) {
			return TradeResult{Action: entity.ActionHold, Note: "insufficient cash to buy, held instead"}
		}
		p.cash = p.cash.Sub(cost)
		p.shares += quantity
		return TradeResult{Action: entity.ActionBuy, Traded: quantity}

	case entity.ActionSell:
		if p.shares <= 0 {
			return TradeResult{Action: entity.ActionHold}
		}
		traded := quantity
		if traded > p.shares {
			traded = p.shares
		}
		p.shares -= traded
		p.cash = p.cash.Add(px.Mul(decimal.NewFromInt(traded)))
		return TradeResult{Action: entity.ActionSell, Traded: -traded}

	case entity.ActionShort, entity.ActionCover:
		return TradeResult{Action: entity.ActionHold, Note: fmt.Sprintf(unsupportedActionNote, action)}

	default:
		return TradeResult{Action: entity.ActionHold}
	}
}

// EffectiveAction is the label logged for an executed trade. A hold with no
// shares held and no error is not labelled at all.
func EffectiveAction(result TradeResult, sharesHeld int64, dayErr error) (string, string) {
	if result.Action == entity.ActionHold && sharesHeld == 0 && dayErr == nil {
		note := entity.NoPositionNote
		if result.Note != "" {
			note = result.Note + "; " + note
		}
		return "", note
	}
	return string(result.Action), result.Note
}
