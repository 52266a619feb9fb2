package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type tavilySearchRequest struct {
	Query         string `json:"query"`
	Topic         string `json:"topic,omitempty"`
	SearchDepth   string `json:"search_depth,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
	TimeRange     string `json:"time_range,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
	EndDate       string `json:"end_date,omitempty"`
	IncludeImages bool   `json:"include_images"`
}

type tavilySearchResponse struct {
	Query   string              `json:"query"`
	Results []entity.SearchItem `json:"results"`
	Images  []json.RawMessage   `json:"images"`
}

// tavilyRepository is a SearchRepository backed by the Tavily search API.
type tavilyRepository struct {
	client         *resty.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewTavilyRepository creates a new instance of tavilyRepository.
func NewTavilyRepository(cfg *config.Config, log *logger.Logger) SearchRepository {
	client := resty.New().
		SetBaseURL(cfg.Search.Tavily.BaseURL).
		SetTimeout(cfg.Search.Tavily.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.Search.Tavily.APIKey)

	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if every := minuteLimiterInterval(cfg.Search.Tavily.MaxRequestPerMinute); every > 0 {
		requestLimiter = rate.NewLimiter(rate.Every(every), 1)
	}

	return &tavilyRepository{
		client:         client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *tavilyRepository) Search(ctx context.Context, query string, opts entity.SearchOptions) (*entity.SearchResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = r.cfg.Search.Tavily.MaxResults
	}

	payload := tavilySearchRequest{
		Query:         query,
		Topic:         opts.Topic,
		SearchDepth:   opts.SearchDepth,
		MaxResults:    maxResults,
		TimeRange:     opts.TimeRange,
		IncludeImages: true,
	}
	if opts.StartDate != nil {
		payload.StartDate = utils.FormatDate(*opts.StartDate)
	}
	if opts.EndDate != nil {
		payload.EndDate = utils.FormatDate(*opts.EndDate)
	}

	var body tavilySearchResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&body).
		Post("/search")
	if err != nil {
		r.logger.Error("Failed to send request to Tavily", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("failed to send request to Tavily: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		r.logger.Error("Received non-OK response from Tavily",
			logger.IntField("status_code", resp.StatusCode()),
			logger.StringField("query", query),
		)
		return nil, fmt.Errorf("received non-OK response from Tavily: %d - %s", resp.StatusCode(), resp.String())
	}

	out := &entity.SearchResponse{
		Query:   body.Query,
		Results: body.Results,
		Images:  decodeTavilyImages(body.Images),
	}
	for i := range out.Results {
		out.Results[i].Source = "tavily"
	}
	return out, nil
}

// Tavily returns images as plain URLs, or as objects when descriptions are requested.
func decodeTavilyImages(raw []json.RawMessage) []entity.ImageItem {
	if raw == nil {
		return nil
	}
	images := make([]entity.ImageItem, 0, len(raw))
	for _, r := range raw {
		var url string
		if err := json.Unmarshal(r, &url); err == nil {
			images = append(images, entity.ImageItem{URL: url})
			continue
		}
		var item entity.ImageItem
		if err := json.Unmarshal(r, &item); err == nil && item.URL != "" {
			images = append(images, item)
		}
	}
	return images
}
