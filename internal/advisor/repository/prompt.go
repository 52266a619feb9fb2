package repository

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/utils"
)

const (
	StepPlanQueries      = "plan_queries"
	StepSynthesize       = "synthesize"
	StepGenerateSignal   = "generate_signal"
	StepAnalyzeRelevance = "analyze_relevance"
	StepGenerateReport   = "generate_report"
)

const maxContentRunes = 600

const analystSystemPrompt = `You are a disciplined equity research analyst. You only use the information provided to you, you never invent facts, and you always answer with a single JSON object matching the requested schema.`

// BuildQueryPlanPrompt asks for search queries grouped by lookback window.
func BuildQueryPlanPrompt(ticker string, asOf *time.Time) StructuredPrompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan web and news search queries to research the stock %s.\n\n", ticker)
	b.WriteString("Return four groups of queries:\n")
	b.WriteString("- recent: up to 5 queries about news from the last 2 days\n")
	b.WriteString("- weekly: up to 5 queries about developments during the last 7 days\n")
	b.WriteString("- monthly: up to 5 queries about the trend over the last 30 days\n")
	b.WriteString("- earnings: up to 3 queries about the most recent earnings report and guidance\n\n")
	b.WriteString("Every query must name the company or the ticker and be specific enough for a news search engine.\n")
	if asOf != nil {
		day := utils.FormatDate(*asOf)
		fmt.Fprintf(&b, "\nThe analysis date is %s. Queries may only ask for information that was knowable strictly before %s. ", day, day)
		b.WriteString("Do not ask about events, prices or reports published on or after that date.\n")
	}

	return StructuredPrompt{
		Step:   StepPlanQueries,
		System: analystSystemPrompt,
		User:   b.String(),
		Schema: querySetSchema,
	}
}

// BuildSynthesisPrompt asks for a weighted bullet summary of the evidence.
func BuildSynthesisPrompt(ticker string, evidence *entity.Evidence) StructuredPrompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the evidence gathered for %s into at most 10 plain text bullet points.\n\n", ticker)
	b.WriteString("Rules:\n")
	b.WriteString("- Use only the evidence below. Do not add outside knowledge.\n")
	b.WriteString("- Weight the evidence by recency: recent 70%, weekly 20%, monthly 10%. Earnings evidence supports the monthly view.\n")
	b.WriteString("- Each bullet is one short sentence without markdown.\n")
	if evidence != nil && evidence.AsOf != nil {
		fmt.Fprintf(&b, "- The analysis date is %s. Ignore anything dated after it.\n", utils.FormatDate(*evidence.AsOf))
	}
	b.WriteString("\n")
	writeEvidence(&b, evidence)
	if evidence != nil {
		writePrices(&b, evidence.Prices, 10)
	}

	return StructuredPrompt{
		Step:   StepSynthesize,
		System: analystSystemPrompt,
		User:   b.String(),
		Schema: summarySchema,
	}
}

// BuildSignalPrompt asks for a trading signal from a summary or a report.
func BuildSignalPrompt(ticker string, input SignalInput) StructuredPrompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Decide a trading signal for %s.\n\n", ticker)
	if input.AsOf != nil {
		fmt.Fprintf(&b, "Analysis date: %s\n", utils.FormatDate(*input.AsOf))
	}
	if input.LastClose > 0 {
		fmt.Fprintf(&b, "Last close: %.2f\n", input.LastClose)
	}

	if input.Report != nil {
		b.WriteString("\nResearch report:\n")
		fmt.Fprintf(&b, "Executive summary: %s\n", input.Report.ExecutiveSummary)
		fmt.Fprintf(&b, "Performance: %s\n", input.Report.Performance)
		fmt.Fprintf(&b, "Fundamentals: %s\n", input.Report.Fundamentals)
		fmt.Fprintf(&b, "Sentiment: %s\n", input.Report.Sentiment)
		fmt.Fprintf(&b, "Risks: %s\n", strings.Join(input.Report.Risks, "; "))
		fmt.Fprintf(&b, "Competitive position: %s\n", input.Report.CompetitivePosition)
		fmt.Fprintf(&b, "Conclusion: %s\n", input.Report.Conclusion)
	} else {
		b.WriteString("\nEvidence summary:\n")
		for _, bullet := range input.Summary {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
	}

	b.WriteString(`
Signal policy:
- confidence is an integer from 0 to 100.
- confidence 30 or lower: action must be "hold" and stocks must be 0.
- bullish with confidence above 30: action "buy" (or "cover" to close a short).
- bearish with confidence above 30: action "sell" (or "short").
- neutral: action "hold".
- stocks follows the confidence tier: 31-50 about 50 shares, 51-75 about 100 shares, 76-100 about 200 shares.
- reason is one or two sentences grounded in the evidence above.
`)

	return StructuredPrompt{
		Step:   StepGenerateSignal,
		System: analystSystemPrompt,
		User:   b.String(),
		Schema: signalSchema,
	}
}

// BuildRelevancePrompt asks for a relevance assessment of every query with results.
func BuildRelevancePrompt(ticker string, evidence *entity.Evidence) StructuredPrompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess how relevant each query's search results are for an investment decision on %s.\n\n", ticker)
	b.WriteString("Return one analysis per query listed below, using the same category and query text. ")
	b.WriteString("relevance is an integer from 0 (useless) to 10 (decisive). key_points holds at most 5 facts taken from the results.\n\n")
	writeEvidence(&b, evidence)

	return StructuredPrompt{
		Step:   StepAnalyzeRelevance,
		System: analystSystemPrompt,
		User:   b.String(),
		Schema: relevanceSchema,
	}
}

// BuildReportPrompt asks for a research report built on the relevance analyses.
func BuildReportPrompt(ticker string, prices entity.PriceSeries, relevance []entity.QueryRelevance) StructuredPrompt {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a concise equity research report on %s.\n\n", ticker)
	writePrices(&b, prices, 30)

	b.WriteString("\nAnalyzed search evidence (relevance 0-10):\n")
	for _, r := range relevance {
		fmt.Fprintf(&b, "[%s] %q relevance=%d sentiment=%s\n", r.Category, r.Query, r.Relevance, r.Sentiment)
		for _, p := range r.KeyPoints {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}
	b.WriteString("\nGive more weight to highly relevant and recent evidence. List at least one risk.\n")

	return StructuredPrompt{
		Step:   StepGenerateReport,
		System: analystSystemPrompt,
		User:   b.String(),
		Schema: reportSchema,
	}
}

func writeEvidence(b *strings.Builder, evidence *entity.Evidence) {
	if evidence == nil {
		return
	}
	for _, bundle := range evidence.Bundles {
		fmt.Fprintf(b, "## %s evidence (%s to %s)\n", strings.ToUpper(string(bundle.Category)),
			utils.FormatDate(bundle.WindowStart), utils.FormatDate(bundle.WindowEnd))
		for _, result := range bundle.Results {
			if !result.Succeeded || result.Response == nil || len(result.Response.Results) == 0 {
				continue
			}
			fmt.Fprintf(b, "Query: %s\n", result.Query)
			for i, item := range result.Response.Results {
				published := item.PublishedDate
				if published == "" {
					published = "N/A"
				}
				fmt.Fprintf(b, "%d. %s\n   Published: %s\n   URL: %s\n   %s\n",
					i+1, utils.SafeText(item.Title), published, item.URL,
					utils.Truncate(utils.SafeText(item.Content), maxContentRunes))
			}
		}
		b.WriteString("\n")
	}
}

func writePrices(b *strings.Builder, prices entity.PriceSeries, last int) {
	if len(prices) == 0 {
		return
	}
	if len(prices) > last {
		prices = prices[len(prices)-last:]
	}
	b.WriteString("Recent daily closes:\n")
	for _, q := range prices {
		fmt.Fprintf(b, "%s: %.2f\n", utils.FormatDate(q.Date), q.Close)
	}
}
