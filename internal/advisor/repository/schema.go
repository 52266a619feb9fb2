package repository

import "google.golang.org/genai"

func stringList(description string, maxItems int64) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
		MaxItems:    genai.Ptr(maxItems),
	}
}

func enumString(description string, values ...string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description, Enum: values}
}

func boundedInteger(description string, min, max float64) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeInteger,
		Description: description,
		Minimum:     genai.Ptr(min),
		Maximum:     genai.Ptr(max),
	}
}

var querySetSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recent":   stringList("Queries about the last two days", 5),
		"weekly":   stringList("Queries about the last week", 5),
		"monthly":  stringList("Queries about the last month", 5),
		"earnings": stringList("Queries about the latest earnings report", 3),
	},
	Required:         []string{"recent", "weekly", "monthly"},
	PropertyOrdering: []string{"recent", "weekly", "monthly", "earnings"},
}

var summarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": stringList("Plain text bullet points, most important first", 10),
	},
	Required: []string{"summary"},
}

var signalSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"signal":     enumString("Directional view", "bullish", "bearish", "neutral"),
		"confidence": boundedInteger("Confidence from 0 to 100", 0, 100),
		"action":     enumString("Trade action", "buy", "sell", "short", "cover", "hold"),
		"stocks":     boundedInteger("Number of shares to trade, 0 for hold", 0, 10000),
		"reason":     {Type: genai.TypeString, Description: "Short justification"},
		"price_targets": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"conservative": {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
				"base_case":    {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
				"optimistic":   {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
			},
			Nullable: genai.Ptr(true),
		},
		"time_horizon": enumString("Holding period", "short_term", "medium_term", "long_term"),
	},
	Required:         []string{"signal", "confidence", "action", "stocks", "reason"},
	PropertyOrdering: []string{"signal", "confidence", "action", "stocks", "reason", "price_targets", "time_horizon"},
}

var relevanceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analyses": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"category":   enumString("Evidence category of the query", "recent", "weekly", "monthly", "earnings"),
					"query":      {Type: genai.TypeString},
					"relevance":  boundedInteger("Relevance of the results to the ticker from 0 to 10", 0, 10),
					"sentiment":  enumString("Overall tone of the results", "positive", "negative", "neutral", "mixed"),
					"key_points": stringList("Key facts found in the results", 5),
				},
				Required: []string{"category", "query", "relevance", "sentiment", "key_points"},
			},
		},
	},
	Required: []string{"analyses"},
}

var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"executive_summary":    {Type: genai.TypeString},
		"performance":          {Type: genai.TypeString, Description: "Recent price performance"},
		"fundamentals":         {Type: genai.TypeString},
		"sentiment":            {Type: genai.TypeString, Description: "Market and news sentiment"},
		"risks":                stringList("Main risks", 8),
		"competitive_position": {Type: genai.TypeString},
		"conclusion":           {Type: genai.TypeString},
	},
	Required: []string{"executive_summary", "performance", "fundamentals", "sentiment", "risks", "competitive_position", "conclusion"},
	PropertyOrdering: []string{
		"executive_summary", "performance", "fundamentals", "sentiment", "risks", "competitive_position", "conclusion",
	},
}
