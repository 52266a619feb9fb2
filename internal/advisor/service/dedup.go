package service

import (
	"net/url"
	"strings"

	"golang-stock-advisor/internal/entity"
)

// NormalizeURL reduces a URL to the key used to detect duplicate evidence.
// URLs that fail to parse are keyed by their raw text.
func NormalizeURL(raw string) string {
	if _, err := url.Parse(strings.TrimSpace(raw)); err != nil {
		return raw
	}

	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.TrimSuffix(key, "/")
	key = strings.TrimPrefix(key, "https://")
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimPrefix(key, "www.")
	return key
}

// DeduplicateResponse keeps the first result and the first image per
// normalized URL, preserving order. A response without a results array is
// returned untouched.
func DeduplicateResponse(resp *entity.SearchResponse) *entity.SearchResponse {
	if resp == nil || resp.Results == nil {
		return resp
	}

	out := &entity.SearchResponse{
		Query:   resp.Query,
		Results: make([]entity.SearchItem, 0, len(resp.Results)),
	}

	seen := make(map[string]struct{}, len(resp.Results))
	for _, item := range resp.Results {
		key := NormalizeURL(item.URL)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Results = append(out.Results, item)
	}

	if resp.Images != nil {
		out.Images = make([]entity.ImageItem, 0, len(resp.Images))
		seenImages := make(map[string]struct{}, len(resp.Images))
		for _, image := range resp.Images {
			key := NormalizeURL(image.URL)
			if _, ok := seenImages[key]; ok {
				continue
			}
			seenImages[key] = struct{}{}
			out.Images = append(out.Images, image)
		}
	}
	return out
}
