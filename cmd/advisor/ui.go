package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/utils"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1F2937")).
			Padding(0, 1).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1).
			Width(80)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	bullishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	bearishStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	neutralStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

func signalStyle(signal entity.SignalDirection) lipgloss.Style {
	switch signal {
	case entity.SignalBullish:
		return bullishStyle
	case entity.SignalBearish:
		return bearishStyle
	default:
		return neutralStyle
	}
}

func section(title, body string) string {
	return sectionStyle.Render(labelStyle.Render(title) + "\n" + strings.TrimRight(body, "\n"))
}

func bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("• " + item + "\n")
	}
	return b.String()
}

func renderAnalysis(w io.Writer, result *entity.AnalysisResult) {
	if result == nil {
		return
	}
	title := result.Ticker
	if result.Name != "" {
		title = fmt.Sprintf("%s (%s)", result.Ticker, result.Name)
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Analysis: %s [%s]", title, result.Mode)))

	if !result.Success {
		fmt.Fprintln(w, errorStyle.Render("✗ "+result.Error))
		return
	}

	if result.Queries != nil {
		var q strings.Builder
		for _, category := range entity.Categories {
			for _, query := range result.Queries.ForCategory(category) {
				q.WriteString(fmt.Sprintf("%-8s %s\n", category, query))
			}
		}
		fmt.Fprintln(w, section("Queries", q.String()))
	}

	if len(result.Summary) > 0 {
		fmt.Fprintln(w, section("Evidence summary", bullets(result.Summary)))
	}

	if r := result.Report; r != nil {
		var b strings.Builder
		b.WriteString(r.ExecutiveSummary + "\n\n")
		b.WriteString(labelStyle.Render("Performance") + "\n" + r.Performance + "\n\n")
		b.WriteString(labelStyle.Render("Fundamentals") + "\n" + r.Fundamentals + "\n\n")
		b.WriteString(labelStyle.Render("Sentiment") + "\n" + r.Sentiment + "\n\n")
		b.WriteString(labelStyle.Render("Risks") + "\n" + bullets(r.Risks) + "\n")
		b.WriteString(labelStyle.Render("Competitive position") + "\n" + r.CompetitivePosition + "\n\n")
		b.WriteString(labelStyle.Render("Conclusion") + "\n" + r.Conclusion)
		fmt.Fprintln(w, section("Research report", b.String()))
	}

	if s := result.Signal; s != nil {
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%s  confidence %d%%  action %s",
			signalStyle(s.Signal).Render(strings.ToUpper(string(s.Signal))), s.Confidence, strings.ToUpper(string(s.Action))))
		if s.Stocks > 0 {
			b.WriteString(fmt.Sprintf(" (%d shares)", s.Stocks))
		}
		b.WriteString("\n")
		if result.LastClose > 0 {
			b.WriteString(fmt.Sprintf("Last close %.2f\n", result.LastClose))
		}
		if t := s.PriceTargets; t != nil {
			b.WriteString(fmt.Sprintf("Targets  conservative %s  base %s  optimistic %s\n",
				formatTarget(t.Conservative), formatTarget(t.BaseCase), formatTarget(t.Optimistic)))
		}
		if s.TimeHorizon != "" {
			b.WriteString("Horizon " + strings.ReplaceAll(string(s.TimeHorizon), "_", " ") + "\n")
		}
		b.WriteString("\n" + s.Reason)
		fmt.Fprintln(w, section("Signal", b.String()))
	}

	fmt.Fprintln(w, mutedStyle.Render("Generated at "+result.GeneratedAt.Format(time.RFC3339)))
}

func formatTarget(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatEntry(e entity.SimulationDayEntry) string {
	line := fmt.Sprintf("%s  close %8.2f  %-5s %-8s traded %+5d  held %5d  cash %12.2f  value %12.2f",
		utils.FormatDate(e.Date), e.Price,
		signalStyle(e.Signal).Render(fmt.Sprintf("%-8s", e.Signal)),
		e.Action, e.SharesTraded, e.SharesHeld, e.Cash, e.PortfolioValue)
	if e.Note != "" {
		line += "  " + mutedStyle.Render(e.Note)
	}
	if e.Error != "" {
		line += "  " + errorStyle.Render(fmt.Sprintf("%s: %s", e.FailedStep, e.Error))
	}
	return line
}

func renderSimulation(w io.Writer, result *entity.SimulationResult, elapsed time.Duration) {
	if result == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Simulation %s  %s to %s",
		result.Ticker, utils.FormatDate(result.Params.StartDate), utils.FormatDate(result.Params.EndDate))))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Run ID        %s\n", result.RunID))
	b.WriteString(fmt.Sprintf("State         %s\n", result.State))
	b.WriteString(fmt.Sprintf("Initial value %.2f\n", result.InitialValue))
	b.WriteString(fmt.Sprintf("Final value   %.2f\n", result.FinalValue))
	returnStyle := bullishStyle
	if result.ReturnPct < 0 {
		returnStyle = bearishStyle
	}
	b.WriteString("Return        " + returnStyle.Render(fmt.Sprintf("%+.2f%%", result.ReturnPct)) + "\n")
	b.WriteString(fmt.Sprintf("Days errored  %d\n", result.DaysErrored))
	b.WriteString(fmt.Sprintf("Elapsed       %s", elapsed.Round(time.Second)))
	if result.Error != "" {
		b.WriteString("\n" + errorStyle.Render(result.Error))
	}
	fmt.Fprintln(w, section("Summary", b.String()))
}
