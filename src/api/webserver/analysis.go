package webserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/data"
	"github.com/veritas-ai/veritas/src/api/types"
	"github.com/veritas-ai/veritas/src/detector"
	"github.com/veritas-ai/veritas/src/logging"
	"github.com/veritas-ai/veritas/src/verdict"
)

const (
	minArticleChars  = 50
	analysisCacheTTL = time.Hour
)

// Analyst is the LLM fallback used when the detection service is down.
type Analyst interface {
	Analyze(ctx context.Context, text string) (*verdict.Analysis, error)
	Ask(ctx context.Context, article, question string) (string, error)
}

type Analysis struct {
	db        *gorm.DB
	rdb       *redis.Client
	det       *detector.Client
	analyst   Analyst
	sanitizer *bluemonday.Policy
}

func NewAnalysis(db *gorm.DB, rdb *redis.Client, det *detector.Client, an Analyst) Analysis {
	return Analysis{
		db:        db,
		rdb:       rdb,
		det:       det,
		analyst:   an,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type analyzeResponse struct {
	Analysis *verdict.Analysis `json:"analysis"`
	Method   string            `json:"method"`
	Cached   bool              `json:"cached"`
}

func (h Analysis) Analyze(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	text := strings.TrimSpace(h.sanitizer.Sanitize(req.Text))
	if len(text) < minArticleChars {
		c.JSON(http.StatusBadRequest, gin.H{"err": "article text too short to analyze"})
		return
	}

	key := data.AnalysisKey(text)
	var cached analyzeResponse
	if found, err := data.GetJSON(c.Request.Context(), h.rdb, key, &cached); err == nil && found {
		cached.Cached = true
		c.JSON(http.StatusOK, cached)
		return
	}

	uid := c.GetString("uid")
	method := "detector"
	analysis, err := h.det.Analyze(c.Request.Context(), text, uid)
	if err != nil && !logging.IsTimeout(c.Request.Context().Err()) {
		// Upstream is down or broken and the caller is still waiting. Retry
		// on the LLM path.
		log.Printf("detector analyze failed, falling back to LLM: %v", err)
		method = "llm"
		analysis, err = h.analyst.Analyze(c.Request.Context(), text)
	}
	if err != nil {
		status := http.StatusBadGateway
		if logging.IsRateLimit(err) {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"err": "analysis unavailable: " + err.Error()})
		return
	}

	resp := analyzeResponse{Analysis: analysis, Method: method}
	if err := data.CacheJSON(c.Request.Context(), h.rdb, key, resp, analysisCacheTTL); err != nil {
		log.Printf("cache analysis: %v", err)
	}

	h.record(uid, text, analysis, method)
	c.JSON(http.StatusOK, resp)
}

func (h Analysis) record(uid, text string, a *verdict.Analysis, method string) {
	blob, err := json.Marshal(a)
	if err != nil {
		blob = nil
	}
	excerpt := text
	if len(excerpt) > 512 {
		excerpt = excerpt[:512]
	}
	rec := types.AnalysisRecord{
		UserID:         uid,
		Excerpt:        excerpt,
		FinalScore:     a.FinalScore,
		PrimaryVerdict: string(a.PrimaryVerdict),
		RiskLevel:      string(a.RiskLevel),
		Confidence:     string(a.ConfidenceLevel),
		Method:         method,
		Result:         string(blob),
	}
	if err := h.db.Create(&rec).Error; err != nil {
		log.Printf("persist analysis: %v", err)
		return
	}
	h.db.Model(&types.UserStat{}).Where("user_id = ?", uid).
		UpdateColumn("analyses_completed", gorm.Expr("analyses_completed + 1"))
}

func (h Analysis) Ask(c *gin.Context) {
	var req struct {
		Article  string `json:"article" binding:"required"`
		Analysis any    `json:"analysis"`
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	article := h.sanitizer.Sanitize(req.Article)
	answer, err := h.det.Ask(c.Request.Context(), article, req.Analysis, req.Question)
	if err != nil && !logging.IsTimeout(c.Request.Context().Err()) {
		log.Printf("detector ask failed, falling back to LLM: %v", err)
		answer, err = h.analyst.Ask(c.Request.Context(), article, req.Question)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": "assistant unavailable: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
