package service

import (
	"strings"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/utils"
)

// FilterByPublishedDate keeps results published inside [start, end]. Items
// without a published date are kept; items whose date cannot be parsed are
// dropped. Images are not dated and pass through.
func FilterByPublishedDate(resp *entity.SearchResponse, start, end time.Time) *entity.SearchResponse {
	if resp == nil || resp.Results == nil {
		return resp
	}

	out := &entity.SearchResponse{
		Query:   resp.Query,
		Results: make([]entity.SearchItem, 0, len(resp.Results)),
		Images:  resp.Images,
	}
	for _, item := range resp.Results {
		if strings.TrimSpace(item.PublishedDate) == "" {
			out.Results = append(out.Results, item)
			continue
		}
		published, ok := utils.ParseDate(item.PublishedDate)
		if !ok {
			continue
		}
		if published.Before(start) || published.After(end) {
			continue
		}
		out.Results = append(out.Results, item)
	}
	return out
}
