package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const maxArticleRunes = 4000

// googleNewsRepository is a SearchRepository backed by the Google News RSS feed.
type googleNewsRepository struct {
	client         *resty.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	parser         *gofeed.Parser
}

// NewGoogleNewsRepository creates a new instance of googleNewsRepository.
func NewGoogleNewsRepository(cfg *config.Config, log *logger.Logger) SearchRepository {
	client := resty.New().
		SetTimeout(cfg.Search.GoogleNews.Timeout).
		SetHeader("User-Agent", common.DefaultUserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if every := minuteLimiterInterval(cfg.Search.GoogleNews.MaxRequestPerMinute); every > 0 {
		requestLimiter = rate.NewLimiter(rate.Every(every), 1)
	}

	return &googleNewsRepository{
		client:         client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		parser:         gofeed.NewParser(),
	}
}

func (r *googleNewsRepository) Search(ctx context.Context, query string, opts entity.SearchOptions) (*entity.SearchResponse, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	feedURL, err := r.buildFeedURL(query, opts)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Processing RSS feed", logger.StringField("url", feedURL))
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8").
		Get(feedURL)
	if err != nil {
		r.logger.Error("Failed to fetch RSS feed", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("failed to fetch RSS feed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch RSS feed, status code: %d", resp.StatusCode())
	}

	feed, err := r.parser.ParseString(resp.String())
	if err != nil {
		r.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("query", query))
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = r.cfg.Search.GoogleNews.MaxResults
	}

	out := &entity.SearchResponse{Query: query, Results: []entity.SearchItem{}}
	for _, item := range feed.Items {
		if maxResults > 0 && len(out.Results) == maxResults {
			break
		}
		out.Results = append(out.Results, r.toSearchItem(ctx, item))
	}
	return out, nil
}

func (r *googleNewsRepository) buildFeedURL(query string, opts entity.SearchOptions) (string, error) {
	params, err := url.ParseQuery(r.cfg.Search.GoogleNews.QueryParams)
	if err != nil {
		return "", fmt.Errorf("invalid google news query params: %w", err)
	}

	q := query
	if opts.StartDate != nil {
		q += " after:" + utils.FormatDate(*opts.StartDate)
	}
	if opts.EndDate != nil {
		// before: is exclusive on Google News
		q += " before:" + utils.FormatDate(opts.EndDate.AddDate(0, 0, 1))
	}
	params.Set("q", q)

	return r.cfg.Search.GoogleNews.BaseURL + "?" + params.Encode(), nil
}

func (r *googleNewsRepository) toSearchItem(ctx context.Context, item *gofeed.Item) entity.SearchItem {
	title, source := splitPublisher(item.Title)
	out := entity.SearchItem{
		Title:   title,
		URL:     item.Link,
		Content: htmlToText(item.Description),
		Source:  source,
	}
	if item.PublishedParsed != nil {
		out.PublishedDate = item.PublishedParsed.UTC().Format(time.RFC3339)
	} else {
		out.PublishedDate = item.Published
	}

	if r.cfg.Search.GoogleNews.FetchArticles && item.Link != "" {
		content, err := r.fetchArticle(ctx, item.Link)
		if err != nil {
			r.logger.Warn("Failed to fetch article content", logger.ErrorField(err), logger.StringField("url", item.Link))
		} else if content != "" {
			out.Content = utils.Truncate(content, maxArticleRunes)
		}
	}
	return out
}

func (r *googleNewsRepository) fetchArticle(ctx context.Context, link string) (string, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(link)
	if err != nil {
		return "", fmt.Errorf("failed to fetch news content: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("failed to fetch news content, status code: %d", resp.StatusCode())
	}

	doc, err := readability.NewDocument(resp.String())
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}
	return htmlToText(doc.Content()), nil
}

// Google News titles end with " - Publisher".
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return strings.TrimSpace(title), "google_news"
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}

func htmlToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return utils.SafeText(fragment)
	}
	return utils.SafeText(doc.Text())
}
