package news

import (
	"fmt"
	"time"

	"token-pulse/internal/domain"
)

// Filter returns the articles matching f. The input slice is not modified.
func Filter(articles []domain.NewsArticle, f domain.NewsFilter) []domain.NewsArticle {
	out := make([]domain.NewsArticle, 0, len(articles))
	for _, a := range articles {
		switch f {
		case domain.FilterPositive:
			if a.Sentiment != domain.SentimentPositive {
				continue
			}
		case domain.FilterNegative:
			if a.Sentiment != domain.SentimentNegative {
				continue
			}
		case domain.FilterTrending:
			if !a.Trending {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// TimeAgo renders the age of t relative to now for display.
func TimeAgo(t, now time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case minutes < 1440:
		return plural(minutes/60, "hour")
	default:
		return plural(minutes/1440, "day")
	}
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
