package webserver

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/veritas-ai/veritas/src/api/data"
	"github.com/veritas-ai/veritas/src/detector"
	"github.com/veritas-ai/veritas/src/news"
)

type News struct {
	rdb      *redis.Client
	det      *detector.Client
	rss      *news.Fetcher
	cacheTTL time.Duration
}

func NewNews(rdb *redis.Client, det *detector.Client, rss *news.Fetcher, ttl time.Duration) News {
	return News{rdb: rdb, det: det, rss: rss, cacheTTL: ttl}
}

func (h News) Feed(c *gin.Context) {
	topic := strings.ToLower(strings.TrimSpace(c.DefaultQuery("topic", "world")))

	key := data.NewsKey(topic)
	var cached []detector.NewsArticle
	if found, err := data.GetJSON(c.Request.Context(), h.rdb, key, &cached); err == nil && found {
		c.JSON(http.StatusOK, gin.H{"articles": cached, "topic": topic, "cached": true})
		return
	}

	articles, err := h.det.News(c.Request.Context(), topic)
	if err != nil || len(articles) == 0 {
		if err != nil {
			log.Printf("detector news failed, falling back to RSS: %v", err)
		}
		articles, err = h.rss.Topic(c.Request.Context(), topic)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": "news unavailable: " + err.Error()})
		return
	}

	if err := data.CacheJSON(c.Request.Context(), h.rdb, key, articles, h.cacheTTL); err != nil {
		log.Printf("cache news: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "topic": topic, "cached": false})
}
