package webserver

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/config"
	"github.com/veritas-ai/veritas/src/detector"
	"github.com/veritas-ai/veritas/src/news"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client, det *detector.Client, an Analyst, rss *news.Fetcher) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db, rdb, det, an, rss)
	return g
}
