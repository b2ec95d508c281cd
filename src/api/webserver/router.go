package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/config"
	"github.com/veritas-ai/veritas/src/detector"
	"github.com/veritas-ai/veritas/src/news"
)

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client, det *detector.Client, an Analyst, rss *news.Fetcher) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://veritas-ai.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	authH := NewAuth(db, []byte(cfg.JWTSecret))
	analysisH := NewAnalysis(db, rdb, det, an)
	newsH := NewNews(rdb, det, rss, time.Duration(cfg.NewsCacheTTL)*time.Second)
	quizH := NewQuiz(db, det)
	historyH := NewHistory(db)
	profileH := NewProfile(db)

	// Analyses are expensive upstream calls, keep a per-user ceiling.
	analyzeLimiter := NewRateLimiter(10, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authH.Register)
		v1.POST("/auth/login", authH.Login)
		v1.GET("/news", newsH.Feed)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.GET("/auth/me", authH.Me)
		secured.POST("/analyze", RateLimitMiddleware(analyzeLimiter), analysisH.Analyze)
		secured.POST("/ask", RateLimitMiddleware(analyzeLimiter), analysisH.Ask)
		secured.GET("/history", historyH.List)
		secured.GET("/quiz", quizH.Question)
		secured.POST("/quiz", quizH.Submit)
		secured.GET("/profile", profileH.Get)
		secured.PUT("/profile", profileH.Update)
	}
}
