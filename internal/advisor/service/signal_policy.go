package service

import "golang-stock-advisor/internal/entity"

const holdConfidenceCeiling = 30

// ApplySignalPolicy enforces the confidence banding on a model-produced
// signal regardless of what the model answered.
func ApplySignalPolicy(signal entity.TradingSignal) entity.TradingSignal {
	if signal.Confidence < 0 {
		signal.Confidence = 0
	}
	if signal.Confidence > 100 {
		signal.Confidence = 100
	}

	switch {
	case signal.Confidence <= holdConfidenceCeiling:
		signal.Action = entity.ActionHold
	case signal.Signal == entity.SignalBullish:
		if signal.Action != entity.ActionBuy && signal.Action != entity.ActionCover {
			signal.Action = entity.ActionBuy
		}
	case signal.Signal == entity.SignalBearish:
		if signal.Action != entity.ActionSell && signal.Action != entity.ActionShort {
			signal.Action = entity.ActionSell
		}
	default:
		signal.Action = entity.ActionHold
	}

	if signal.Action == entity.ActionHold {
		signal.Stocks = 0
	} else if signal.Stocks <= 0 {
		signal.Stocks = TierSize(signal.Confidence)
	}
	return signal
}

// TierSize is the share count suggested for a confidence level.
func TierSize(confidence int) int {
	switch {
	case confidence <= holdConfidenceCeiling:
		return 0
	case confidence <= 50:
		return 50
	case confidence <= 75:
		return 100
	default:
		return 200
	}
}
