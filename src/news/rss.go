// Package news fetches suggested articles from public RSS feeds. It backs the
// news endpoint when the detection service has no NewsAPI key configured.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/veritas-ai/veritas/src/detector"
)

// topicFeeds maps a UI topic to public RSS feeds, most reputable first.
var topicFeeds = map[string][]string{
	"world": {
		"https://feeds.bbci.co.uk/news/world/rss.xml",
		"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
	},
	"politics": {
		"https://feeds.bbci.co.uk/news/politics/rss.xml",
		"https://rss.nytimes.com/services/xml/rss/nyt/Politics.xml",
	},
	"technology": {
		"https://feeds.bbci.co.uk/news/technology/rss.xml",
		"https://rss.nytimes.com/services/xml/rss/nyt/Technology.xml",
	},
	"science": {
		"https://feeds.bbci.co.uk/news/science_and_environment/rss.xml",
		"https://rss.nytimes.com/services/xml/rss/nyt/Science.xml",
	},
	"health": {
		"https://feeds.bbci.co.uk/news/health/rss.xml",
		"https://rss.nytimes.com/services/xml/rss/nyt/Health.xml",
	},
	"business": {
		"https://feeds.bbci.co.uk/news/business/rss.xml",
		"https://rss.nytimes.com/services/xml/rss/nyt/Business.xml",
	},
}

const maxArticlesPerTopic = 10

// Fetcher pulls and flattens RSS items.
type Fetcher struct {
	parser *gofeed.Parser
}

// NewFetcher returns a Fetcher with a default gofeed parser.
func NewFetcher() *Fetcher {
	return &Fetcher{parser: gofeed.NewParser()}
}

// Topic fetches articles for a UI topic, falling back to world feeds for
// unknown topics.
func (f *Fetcher) Topic(ctx context.Context, topic string) ([]detector.NewsArticle, error) {
	key := strings.ToLower(strings.TrimSpace(topic))
	feeds, ok := topicFeeds[key]
	if !ok {
		feeds = topicFeeds["world"]
		key = "world"
	}

	var articles []detector.NewsArticle
	var lastErr error
	for _, feedURL := range feeds {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			lastErr = err
			continue
		}
		articles = append(articles, FromFeed(feed, key)...)
		if len(articles) >= maxArticlesPerTopic {
			break
		}
	}

	if len(articles) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("news: all feeds failed: %w", lastErr)
		}
		return nil, fmt.Errorf("news: no items for topic %q", topic)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Headline < articles[j].Headline
	})
	if len(articles) > maxArticlesPerTopic {
		articles = articles[:maxArticlesPerTopic]
	}
	return articles, nil
}

// FromFeed flattens a parsed feed into the UI article shape.
func FromFeed(feed *gofeed.Feed, category string) []detector.NewsArticle {
	if feed == nil {
		return nil
	}
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = "Unknown source"
	}

	out := make([]detector.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		out = append(out, detector.NewsArticle{
			Headline: strings.TrimSpace(item.Title),
			Summary:  strings.TrimSpace(item.Description),
			Source:   source,
			Category: category,
			URL:      item.Link,
		})
	}
	return out
}
