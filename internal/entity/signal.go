package entity

// SignalDirection is the directional view of a trading signal.
type SignalDirection string

const (
	SignalBullish SignalDirection = "bullish"
	SignalBearish SignalDirection = "bearish"
	SignalNeutral SignalDirection = "neutral"
)

// TradeAction is what the signal asks the portfolio to do.
type TradeAction string

const (
	ActionBuy   TradeAction = "buy"
	ActionSell  TradeAction = "sell"
	ActionShort TradeAction = "short"
	ActionCover TradeAction = "cover"
	ActionHold  TradeAction = "hold"
)

// TimeHorizon is the holding period the signal targets.
type TimeHorizon string

const (
	HorizonShortTerm  TimeHorizon = "short_term"
	HorizonMediumTerm TimeHorizon = "medium_term"
	HorizonLongTerm   TimeHorizon = "long_term"
)

type PriceTargets struct {
	Conservative *float64 `json:"conservative,omitempty" validate:"omitempty,gt=0"`
	BaseCase     *float64 `json:"base_case,omitempty" validate:"omitempty,gt=0"`
	Optimistic   *float64 `json:"optimistic,omitempty" validate:"omitempty,gt=0"`
}

// TradingSignal is the structured decision derived from the evidence.
type TradingSignal struct {
	Signal       SignalDirection `json:"signal" validate:"required,oneof=bullish bearish neutral"`
	Confidence   int             `json:"confidence" validate:"min=0,max=100"`
	Action       TradeAction     `json:"action" validate:"required,oneof=buy sell short cover hold"`
	Stocks       int             `json:"stocks" validate:"min=0"`
	Reason       string          `json:"reason" validate:"required"`
	PriceTargets *PriceTargets   `json:"price_targets,omitempty" validate:"omitempty"`
	TimeHorizon  TimeHorizon     `json:"time_horizon,omitempty" validate:"omitempty,oneof=short_term medium_term long_term"`
}
