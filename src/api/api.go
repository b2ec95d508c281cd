package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/ai/analyst"
	"github.com/veritas-ai/veritas/src/ai/core"
	_ "github.com/veritas-ai/veritas/src/ai/providers"
	"github.com/veritas-ai/veritas/src/api/config"
	"github.com/veritas-ai/veritas/src/api/data"
	"github.com/veritas-ai/veritas/src/api/types"
	"github.com/veritas-ai/veritas/src/api/webserver"
	"github.com/veritas-ai/veritas/src/detector"
	"github.com/veritas-ai/veritas/src/news"
	"github.com/veritas-ai/veritas/src/normalize"
	"github.com/veritas-ai/veritas/src/verdict"
)

var allModels = []interface{}{
	&types.User{}, &types.UserStat{},
	&types.AnalysisRecord{}, &types.QuizRecord{},
}

func migrate(db *gorm.DB) {
	err := db.AutoMigrate(allModels...)

	if err == nil {
		return
	}

	log.Printf("auto-migrate failed (%v) - dropping & recreating schema", err)
	_ = db.Migrator().DropTable(
		"quiz_records", "analysis_records", "user_stats", "users",
	)
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate after drop: %v", err)
	}
}

func main() {
	cfg := config.Load()

	db := data.MustMySQL(cfg.MySQLDSN)
	migrate(db)

	rdb := data.MustRedis(cfg.RedisURL)

	weights := verdict.DefaultWeights()
	det := detector.New(cfg.PythonAPIURL, normalize.New(weights, normalize.DefaultOptions()))

	aiClient, err := core.NewClient(core.FactoryConfig{
		Provider:  cfg.AIProvider,
		Model:     cfg.AIModel,
		OpenAIKey: cfg.OpenAIKey,
		ClaudeKey: cfg.ClaudeKey,
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}
	an := analyst.New(aiClient, weights)

	router := webserver.New(cfg, db, rdb, det, an, news.NewFetcher())
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Veritas API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
