package webserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/types"
)

const (
	defaultPerPage = 10
	maxPerPage     = 50
)

type History struct {
	db *gorm.DB
}

func NewHistory(db *gorm.DB) History {
	return History{db: db}
}

type historyItem struct {
	ID             uint64          `json:"id"`
	Excerpt        string          `json:"excerpt"`
	FinalScore     float64         `json:"final_score"`
	PrimaryVerdict string          `json:"primary_verdict"`
	RiskLevel      string          `json:"risk_level"`
	Confidence     string          `json:"confidence"`
	Method         string          `json:"method"`
	Timestamp      string          `json:"timestamp"`
	Analysis       json.RawMessage `json:"analysis,omitempty"`
}

func (h History) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}
	full := c.Query("full") == "true"

	uid := c.GetString("uid")
	var total int64
	h.db.Model(&types.AnalysisRecord{}).Where("user_id = ?", uid).Count(&total)

	var records []types.AnalysisRecord
	err := h.db.Where("user_id = ?", uid).
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, r := range records {
		item := historyItem{
			ID:             r.ID,
			Excerpt:        r.Excerpt,
			FinalScore:     r.FinalScore,
			PrimaryVerdict: r.PrimaryVerdict,
			RiskLevel:      r.RiskLevel,
			Confidence:     r.Confidence,
			Method:         r.Method,
			Timestamp:      r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if full && r.Result != "" {
			item.Analysis = json.RawMessage(r.Result)
		}
		items = append(items, item)
	}

	totalPages := int(total) / perPage
	if int(total)%perPage != 0 || totalPages == 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       total,
		"page":        page,
		"total_pages": totalPages,
	})
}
