package news

import (
	"testing"

	"github.com/mmcdole/gofeed"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>BBC News</title>
    <item>
      <title>First headline</title>
      <description>First summary</description>
      <link>https://example.org/1</link>
    </item>
    <item>
      <title>  </title>
      <description>No title, dropped</description>
    </item>
    <item>
      <title>Second headline</title>
      <link>https://example.org/2</link>
    </item>
  </channel>
</rss>`

func TestFromFeed(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(sampleFeed)
	if err != nil {
		t.Fatalf("parse feed: %v", err)
	}

	articles := FromFeed(feed, "world")
	if len(articles) != 2 {
		t.Fatalf("article count = %d, want 2 (blank title dropped)", len(articles))
	}
	first := articles[0]
	if first.Headline != "First headline" || first.Summary != "First summary" {
		t.Errorf("first article = %+v", first)
	}
	if first.Source != "BBC News" || first.Category != "world" || first.URL != "https://example.org/1" {
		t.Errorf("first article metadata = %+v", first)
	}
	if articles[1].Summary != "" {
		t.Errorf("missing description should stay empty, got %q", articles[1].Summary)
	}
}

func TestFromFeedNil(t *testing.T) {
	if got := FromFeed(nil, "world"); got != nil {
		t.Errorf("FromFeed(nil) = %v", got)
	}
}
