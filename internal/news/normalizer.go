// Package news turns raw NewsAPI articles into scored NewsArticle records.
package news

import (
	"fmt"
	"strings"
	"time"

	"token-pulse/internal/domain"
	"token-pulse/internal/sentiment"
)

const (
	summaryLimit = 200
	// trendingRank is how many of the newest items in a batch are flagged trending.
	trendingRank = 2

	relevanceAsset   = 90
	relevanceGeneric = 70

	defaultTitle   = "No title available"
	defaultSummary = "No summary available"
	defaultSource  = "Unknown Source"
	defaultURL     = "#"
)

// Relevance scores asset-specific queries above the generic crypto query.
func Relevance(query string) int {
	if query == domain.GenericNewsQuery {
		return relevanceGeneric
	}
	return relevanceAsset
}

// Normalize converts one raw article. Missing fields resolve to fixed
// defaults; it never fails. index is the article's position in its batch.
func Normalize(raw domain.RawArticle, query string, index int, fetchedAt time.Time) domain.NewsArticle {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = defaultTitle
	}
	description := strings.TrimSpace(raw.Description)
	if description == "" {
		description = strings.TrimSpace(raw.Content)
	}
	if description == "" {
		description = defaultSummary
	}
	source := defaultSource
	if raw.Source != nil && strings.TrimSpace(raw.Source.Name) != "" {
		source = strings.TrimSpace(raw.Source.Name)
	}
	url := strings.TrimSpace(raw.URL)
	id := url
	if id == "" {
		id = fmt.Sprintf("%s-%d", query, index)
		url = defaultURL
	}
	publishedAt := fetchedAt
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw.PublishedAt)); err == nil {
		publishedAt = t.UTC()
	}

	return domain.NewsArticle{
		ID:          id,
		Title:       title,
		Source:      source,
		Summary:     truncate(description, summaryLimit),
		URL:         url,
		Sentiment:   sentiment.Analyze(title, description),
		Relevance:   Relevance(query),
		Trending:    index < trendingRank,
		PublishedAt: publishedAt,
	}
}

// NormalizeBatch converts a whole fetch result, preserving source order
// (newest first, as the upstream sorts by publish time).
func NormalizeBatch(raws []domain.RawArticle, query string, fetchedAt time.Time) []domain.NewsArticle {
	out := make([]domain.NewsArticle, 0, len(raws))
	for i, raw := range raws {
		out = append(out, Normalize(raw, query, i, fetchedAt))
	}
	return out
}

// Fallback is served when no news batch has ever been fetched.
func Fallback(now time.Time) domain.NewsArticle {
	return domain.NewsArticle{
		ID:          "fallback-1",
		Title:       "Cryptocurrency Market Update",
		Source:      "Fallback Source",
		Summary:     "No live news available. Check your API key or internet connection.",
		URL:         defaultURL,
		Sentiment:   domain.SentimentNeutral,
		Relevance:   relevanceGeneric,
		Trending:    false,
		PublishedAt: now,
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
