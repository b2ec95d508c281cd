package webserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/types"
	"github.com/veritas-ai/veritas/src/detector"
)

const pointsPerCorrect = 10

// quizScorePerLevel is how many points advance the player one level.
const quizScorePerLevel = 100

type Quiz struct {
	db  *gorm.DB
	det *detector.Client
}

func NewQuiz(db *gorm.DB, det *detector.Client) Quiz {
	return Quiz{db: db, det: det}
}

func (h Quiz) Question(c *gin.Context) {
	topic := strings.ToLower(strings.TrimSpace(c.DefaultQuery("topic", "general")))

	q, err := h.det.Quiz(c.Request.Context(), topic)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": "quiz unavailable: " + err.Error()})
		return
	}
	answer := "FAKE"
	if q.IsReal {
		answer = "REAL"
	}
	c.JSON(http.StatusOK, gin.H{
		"question":       q.Text,
		"correct_answer": answer,
		"explanation":    q.Explanation,
		"source":         q.Source,
		"topic":          topic,
	})
}

func (h Quiz) Submit(c *gin.Context) {
	var req struct {
		Question      string `json:"question" binding:"required"`
		Answer        string `json:"answer" binding:"required"`
		CorrectAnswer string `json:"correct_answer" binding:"required"`
		Topic         string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	uid := c.GetString("uid")
	correct := strings.EqualFold(req.Answer, req.CorrectAnswer)
	points := 0
	if correct {
		points = pointsPerCorrect
	}

	result, err := h.det.SubmitQuiz(c.Request.Context(), detector.QuizSubmission{
		Question:      req.Question,
		Answer:        req.Answer,
		CorrectAnswer: req.CorrectAnswer,
		Topic:         req.Topic,
		UserID:        uid,
	})
	if err != nil {
		log.Printf("detector quiz submit failed, grading locally: %v", err)
		msg := "Not quite. Check the explanation and try another one."
		if correct {
			msg = "Correct! Well spotted."
		}
		result = &detector.QuizResult{Correct: correct, PointsEarned: points, Message: msg}
	}

	h.db.Create(&types.QuizRecord{
		UserID:   uid,
		Topic:    req.Topic,
		Question: req.Question,
		Answer:   strings.ToUpper(req.Answer),
		Correct:  correct,
		Points:   points,
	})
	h.bumpStats(uid, correct, points, result)

	c.JSON(http.StatusOK, result)
}

func (h Quiz) bumpStats(uid string, correct bool, points int, result *detector.QuizResult) {
	var stats types.UserStat
	if err := h.db.First(&stats, "user_id = ?", uid).Error; err != nil {
		stats = types.UserStat{UserID: uid, UserLevel: 1}
	}
	stats.QuizAnswered++
	stats.QuizScore += points
	if correct {
		stats.QuizCorrect++
	}
	level := 1 + stats.QuizScore/quizScorePerLevel
	if result != nil && result.Level > level {
		level = result.Level
	}
	if level > stats.UserLevel {
		stats.UserLevel = level
		if result != nil {
			result.LeveledUp = true
			result.Level = level
		}
	}
	if result != nil {
		result.TotalPoints = stats.QuizScore
		if stats.QuizAnswered > 0 {
			result.Accuracy = float64(stats.QuizCorrect) / float64(stats.QuizAnswered)
		}
	}
	if err := h.db.Save(&stats).Error; err != nil {
		log.Printf("save quiz stats: %v", err)
	}
}
