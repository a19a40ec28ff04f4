package domain

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type NewsFilter string

const (
	FilterAll      NewsFilter = "all"
	FilterPositive NewsFilter = "positive"
	FilterNegative NewsFilter = "negative"
	FilterTrending NewsFilter = "trending"
)

// ParseNewsFilter maps free text onto a filter, defaulting to FilterAll.
func ParseNewsFilter(v string) (NewsFilter, bool) {
	switch NewsFilter(v) {
	case "", FilterAll:
		return FilterAll, true
	case FilterPositive, FilterNegative, FilterTrending:
		return NewsFilter(v), true
	default:
		return FilterAll, false
	}
}

// RawArticleSource is the nested source object of a NewsAPI article.
type RawArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawArticle is one record of the NewsAPI /v2/everything response. Every
// field may be missing.
type RawArticle struct {
	Source      *RawArticleSource `json:"source"`
	Author      string            `json:"author"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	URL         string            `json:"url"`
	PublishedAt string            `json:"publishedAt"`
}

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Sentiment   Sentiment `json:"sentiment"`
	Relevance   int       `json:"relevance"`
	Trending    bool      `json:"trending"`
	PublishedAt time.Time `json:"published_at"`
}
