package telegram

import (
	"fmt"
	"strings"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/utils"
)

const maxMessageLen = 4090

func signalIcon(signal entity.SignalDirection) string {
	switch signal {
	case entity.SignalBullish:
		return "😊"
	case entity.SignalBearish:
		return "😟"
	default:
		return "😐"
	}
}

func actionIcon(action string) string {
	switch strings.ToLower(action) {
	case "buy", "cover":
		return "🟢"
	case "sell", "short":
		return "🔴"
	default:
		return "🟡"
	}
}

// FormatAnalysisForTelegram formats a one-shot analysis into a Markdown string for Telegram.
func FormatAnalysisForTelegram(result *entity.AnalysisResult) string {
	var builder strings.Builder

	builder.WriteString("--- 📊 *Stock Analysis* ---\n\n")
	builder.WriteString(fmt.Sprintf("📈 *Ticker:* `%s`", result.Ticker))
	if result.Name != "" {
		builder.WriteString(fmt.Sprintf(" (%s)", result.Name))
	}
	builder.WriteString("\n")
	if result.LastClose > 0 {
		builder.WriteString(fmt.Sprintf("💵 *Last Close:* %.2f\n", result.LastClose))
	}
	builder.WriteString(fmt.Sprintf("🕒 *Generated:* %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04")))

	if !result.Success {
		builder.WriteString(fmt.Sprintf("❌ *Failed:* %s\n", result.Error))
		return builder.String()
	}

	s := result.Signal
	builder.WriteString(fmt.Sprintf("%s *Signal:* %s\n", signalIcon(s.Signal), s.Signal))
	builder.WriteString(fmt.Sprintf("%s *Action:* %s", actionIcon(string(s.Action)), s.Action))
	if s.Stocks > 0 {
		builder.WriteString(fmt.Sprintf(" %d shares", s.Stocks))
	}
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("🎯 *Confidence:* %d%%\n", s.Confidence))
	if s.TimeHorizon != "" {
		builder.WriteString(fmt.Sprintf("⏳ *Horizon:* %s\n", strings.ReplaceAll(string(s.TimeHorizon), "_", " ")))
	}
	if pt := s.PriceTargets; pt != nil {
		builder.WriteString("🏁 *Targets:*")
		for _, t := range []struct {
			label string
			value *float64
		}{{"conservative", pt.Conservative}, {"base", pt.BaseCase}, {"optimistic", pt.Optimistic}} {
			if t.value != nil {
				builder.WriteString(fmt.Sprintf(" %s %.2f", t.label, *t.value))
			}
		}
		builder.WriteString("\n")
	}
	builder.WriteString(fmt.Sprintf("\n💡 *Reason:* %s\n", s.Reason))

	if len(result.Summary) > 0 {
		builder.WriteString("\n📝 *Summary:*\n")
		for _, bullet := range result.Summary {
			builder.WriteString(fmt.Sprintf("• %s\n", bullet))
		}
	}
	if r := result.Report; r != nil {
		builder.WriteString(fmt.Sprintf("\n📝 *Report:* %s\n", r.ExecutiveSummary))
		builder.WriteString(fmt.Sprintf("⚠️ *Risks:* %s\n", strings.Join(r.Risks, "; ")))
		builder.WriteString(fmt.Sprintf("✅ *Conclusion:* %s\n", r.Conclusion))
	}

	return utils.Truncate(builder.String(), maxMessageLen)
}

// FormatSimulationForTelegram formats a simulation log into multiple Markdown
// strings for Telegram, ensuring each message does not exceed the maximum length.
func FormatSimulationForTelegram(result *entity.SimulationResult) []string {
	var header strings.Builder
	header.WriteString("--- 🧪 *Simulation* ---\n\n")
	header.WriteString(fmt.Sprintf("📈 *Ticker:* `%s`\n", result.Ticker))
	header.WriteString(fmt.Sprintf("📅 *Window:* %s to %s\n",
		utils.FormatDate(result.Params.StartDate), utils.FormatDate(result.Params.EndDate)))
	header.WriteString(fmt.Sprintf("🔖 *State:* %s\n", result.State))
	if result.Error != "" {
		header.WriteString(fmt.Sprintf("❌ *Error:* %s\n", result.Error))
	}
	header.WriteString(fmt.Sprintf("💰 *Value:* %.2f → %.2f (%+.2f%%)\n", result.InitialValue, result.FinalValue, result.ReturnPct))
	if result.DaysErrored > 0 {
		header.WriteString(fmt.Sprintf("⚠️ *Days with errors:* %d\n", result.DaysErrored))
	}
	header.WriteString("\n")

	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		if part == 1 {
			currentMessage.WriteString(header.String())
		} else {
			currentMessage.WriteString(fmt.Sprintf("---*Simulation %s Part %d*---\n\n", result.Ticker, part))
		}
	}
	startNewPart()

	for i, e := range result.Entries {
		line := formatSimulationEntry(i, e)
		if currentMessage.Len()+len(line) > maxMessageLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(line)
	}

	messages = append(messages, currentMessage.String())
	return messages
}

func formatSimulationEntry(i int, e entity.SimulationDayEntry) string {
	if i == 0 {
		return fmt.Sprintf("`%s` %s @ %.2f | shares %d | cash %.2f | value %.2f\n",
			utils.FormatDate(e.Date), entity.StartLabel, e.Price, e.SharesHeld, e.Cash, e.PortfolioValue)
	}

	action := e.Action
	if action == "" {
		action = "-"
	}
	line := fmt.Sprintf("`%s` %s %s %+d @ %.2f | shares %d | value %.2f",
		utils.FormatDate(e.Date), actionIcon(e.Action), action, e.SharesTraded, e.Price, e.SharesHeld, e.PortfolioValue)
	if e.Error != "" {
		line += " | ❌ " + utils.Truncate(e.Error, 120)
	} else if e.Note != "" {
		line += " | " + e.Note
	}
	return line + "\n"
}
