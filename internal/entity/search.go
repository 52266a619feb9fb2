package entity

import "time"

// EvidenceCategory groups search queries by how far back they look.
type EvidenceCategory string

const (
	CategoryRecent   EvidenceCategory = "recent"
	CategoryWeekly   EvidenceCategory = "weekly"
	CategoryMonthly  EvidenceCategory = "monthly"
	CategoryEarnings EvidenceCategory = "earnings"
)

// Categories lists every evidence category in synthesis order.
var Categories = []EvidenceCategory{CategoryRecent, CategoryWeekly, CategoryMonthly, CategoryEarnings}

// LookbackDays returns the temporal window of the category.
func (c EvidenceCategory) LookbackDays() int {
	switch c {
	case CategoryRecent:
		return 2
	case CategoryWeekly:
		return 7
	case CategoryMonthly:
		return 30
	case CategoryEarnings:
		return 90
	default:
		return 0
	}
}

// MaxQueries is the upper bound on planned queries for the category.
func (c EvidenceCategory) MaxQueries() int {
	if c == CategoryEarnings {
		return 3
	}
	return 5
}

// QuerySet holds the planned search queries for one (ticker, as-of date) pair.
type QuerySet struct {
	Recent   []string `json:"recent" validate:"max=5,dive,required"`
	Weekly   []string `json:"weekly" validate:"max=5,dive,required"`
	Monthly  []string `json:"monthly" validate:"max=5,dive,required"`
	Earnings []string `json:"earnings,omitempty" validate:"max=3,dive,required"`
}

// ForCategory returns the queries planned for c.
func (q QuerySet) ForCategory(c EvidenceCategory) []string {
	switch c {
	case CategoryRecent:
		return q.Recent
	case CategoryWeekly:
		return q.Weekly
	case CategoryMonthly:
		return q.Monthly
	case CategoryEarnings:
		return q.Earnings
	default:
		return nil
	}
}

// Total returns the number of planned queries.
func (q QuerySet) Total() int {
	return len(q.Recent) + len(q.Weekly) + len(q.Monthly) + len(q.Earnings)
}

// SearchItem is a single search hit. PublishedDate is kept raw so that the
// temporal filter can tell a missing date from an unparseable one.
type SearchItem struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score"`
	PublishedDate string  `json:"published_date,omitempty"`
	Source        string  `json:"source,omitempty"`
}

// ImageItem is an image hit returned next to the results.
type ImageItem struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// SearchResponse is a provider response. A nil Results slice means the
// provider returned no results array at all.
type SearchResponse struct {
	Query   string       `json:"query,omitempty"`
	Results []SearchItem `json:"results"`
	Images  []ImageItem  `json:"images,omitempty"`
}

// SearchOptions are the provider parameters derived from an evidence category.
type SearchOptions struct {
	Topic       string     `json:"topic"`
	TimeRange   string     `json:"time_range,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MaxResults  int        `json:"max_results"`
	SearchDepth string     `json:"search_depth"`
}

// QueryResult records the outcome of one query. Failed queries keep a nil Response.
type QueryResult struct {
	Query     string          `json:"query"`
	Response  *SearchResponse `json:"response"`
	Succeeded bool            `json:"succeeded"`
	Error     string          `json:"error,omitempty"`
}

// EvidenceBundle is the set of query results gathered for one category.
type EvidenceBundle struct {
	Category    EvidenceCategory `json:"category"`
	WindowStart time.Time        `json:"window_start"`
	WindowEnd   time.Time        `json:"window_end"`
	Results     []QueryResult    `json:"results"`
}

// ItemCount returns the number of search items across successful queries.
func (b EvidenceBundle) ItemCount() int {
	n := 0
	for _, r := range b.Results {
		if r.Response != nil {
			n += len(r.Response.Results)
		}
	}
	return n
}

// Evidence is everything the fetcher gathered for one pipeline run.
type Evidence struct {
	Ticker  string           `json:"ticker"`
	AsOf    *time.Time       `json:"as_of,omitempty"`
	Bundles []EvidenceBundle `json:"bundles"`
	Prices  PriceSeries      `json:"prices"`
}

// Bundle returns the bundle for c, or an empty bundle.
func (e Evidence) Bundle(c EvidenceCategory) EvidenceBundle {
	for _, b := range e.Bundles {
		if b.Category == c {
			return b
		}
	}
	return EvidenceBundle{Category: c}
}
