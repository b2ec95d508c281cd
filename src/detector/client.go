// Package detector is the HTTP client for the external Python detection
// service. Responses to /api/predict go through the normalizer; the remaining
// endpoints (news, quiz, history, ask) are reshaped for the UI.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/veritas-ai/veritas/src/normalize"
	"github.com/veritas-ai/veritas/src/verdict"
	"github.com/veritas-ai/veritas/src/webclient"
)

// Failure taxonomy. All three propagate to the caller; none are retried here.
// Retries, if wanted, belong to the caller.
var (
	// ErrUpstreamUnavailable covers network failures and non-2xx replies.
	ErrUpstreamUnavailable = errors.New("detector: upstream unavailable")
	// ErrUpstreamMalformed covers 2xx replies that cannot be decoded or
	// that carry an explicit error field.
	ErrUpstreamMalformed = errors.New("detector: upstream response malformed")
)

// Per-endpoint timeouts. Prediction rides transformer models and needs the
// long one; the lookups are plain DB/API reads.
const (
	predictTimeout = 60 * time.Second
	newsTimeout    = 15 * time.Second
	quizTimeout    = 10 * time.Second
	historyTimeout = 15 * time.Second
	askTimeout     = 10 * time.Second
)

// Client talks to one detection-service deployment. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	normalizer normalize.Normalizer
}

// New builds a Client for the service at baseURL.
func New(baseURL string, n normalize.Normalizer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: webclient.NewDefault(predictTimeout),
		normalizer: n,
	}
}

// Analyze submits text to /api/predict and normalizes the reply into the
// canonical analysis. Both "text" and "headline" are sent to support older
// backend versions.
func (c *Client) Analyze(ctx context.Context, text, userID string) (*verdict.Analysis, error) {
	reqBody := map[string]string{"text": text, "headline": text}
	if userID != "" {
		reqBody["user_id"] = userID
	}

	raw, err := c.post(ctx, "/api/predict", predictTimeout, reqBody)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}
	return c.normalizer.Transform(doc, raw), nil
}

// NewsArticle is a suggested article reshaped for the UI.
type NewsArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Category string `json:"category"`
	URL      string `json:"url,omitempty"`
}

// News fetches suggested articles for a topic. The service returns raw
// NewsAPI items; they are flattened to headline/summary/source/category.
func (c *Client) News(ctx context.Context, topic string) ([]NewsArticle, error) {
	raw, err := c.get(ctx, "/api/news?topic="+url.QueryEscape(topic), newsTimeout)
	if err != nil {
		return nil, err
	}

	var data struct {
		Topic    string `json:"topic"`
		Articles []struct {
			Title       string          `json:"title"`
			Description string          `json:"description"`
			Content     string          `json:"content"`
			URL         string          `json:"url"`
			Source      json.RawMessage `json:"source"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}

	category := topic
	if category == "" {
		category = data.Topic
	}
	if category == "" {
		category = "World"
	}

	articles := make([]NewsArticle, 0, len(data.Articles))
	for _, a := range data.Articles {
		headline := a.Title
		if headline == "" {
			headline = a.Description
		}
		if headline == "" {
			headline = "Untitled article"
		}
		summary := a.Description
		if summary == "" {
			summary = a.Content
		}
		articles = append(articles, NewsArticle{
			Headline: headline,
			Summary:  summary,
			Source:   sourceName(a.Source),
			Category: category,
			URL:      a.URL,
		})
	}
	return articles, nil
}

// QuizQuestion is one real-or-fake headline round.
type QuizQuestion struct {
	Text        string `json:"text"`
	IsReal      bool   `json:"isReal"`
	Explanation string `json:"explanation,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Quiz fetches one question for a topic.
func (c *Client) Quiz(ctx context.Context, topic string) (*QuizQuestion, error) {
	raw, err := c.get(ctx, "/api/quiz?topic="+url.QueryEscape(topic), quizTimeout)
	if err != nil {
		return nil, err
	}

	var data struct {
		Question      string `json:"question"`
		CorrectAnswer string `json:"correct_answer"`
		Explanation   string `json:"explanation"`
		Source        string `json:"source"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	return &QuizQuestion{
		Text:        data.Question,
		IsReal:      strings.EqualFold(data.CorrectAnswer, "REAL"),
		Explanation: data.Explanation,
		Source:      data.Source,
	}, nil
}

// QuizSubmission is a player's answer to one question.
type QuizSubmission struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Topic         string `json:"topic"`
	UserID        string `json:"user_id,omitempty"`
}

// QuizResult is the service's grading of a submission.
type QuizResult struct {
	Correct      bool    `json:"correct"`
	PointsEarned int     `json:"points_earned,omitempty"`
	TotalPoints  int     `json:"total_points,omitempty"`
	Level        int     `json:"level,omitempty"`
	LeveledUp    bool    `json:"leveled_up,omitempty"`
	Accuracy     float64 `json:"accuracy,omitempty"`
	Message      string  `json:"message"`
}

// SubmitQuiz grades an answer.
func (c *Client) SubmitQuiz(ctx context.Context, sub QuizSubmission) (*QuizResult, error) {
	raw, err := c.post(ctx, "/api/quiz", quizTimeout, sub)
	if err != nil {
		return nil, err
	}

	var result QuizResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	if result.Message == "" {
		result.Message = "Answer submitted"
	}
	return &result, nil
}

// PredictionRecord is one entry of the detection service's prediction log.
type PredictionRecord struct {
	ID               int      `json:"id"`
	Headline         string   `json:"headline"`
	Prediction       string   `json:"prediction"`
	Confidence       float64  `json:"confidence"`
	Method           string   `json:"method"`
	Timestamp        string   `json:"timestamp,omitempty"`
	SentimentScore   *float64 `json:"sentiment_score,omitempty"`
	CredibilityScore *float64 `json:"credibility_score,omitempty"`
}

// HistoryPage is a page of the prediction log.
type HistoryPage struct {
	Items      []PredictionRecord `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
}

// History fetches a page of the prediction log, optionally scoped to a user.
func (c *Client) History(ctx context.Context, page, perPage int, userID string) (*HistoryPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if userID != "" {
		params.Set("user_id", userID)
	}

	raw, err := c.get(ctx, "/api/history?"+params.Encode(), historyTimeout)
	if err != nil {
		return nil, err
	}

	var data struct {
		Predictions []PredictionRecord `json:"predictions"`
		Total       *int               `json:"total"`
		Page        *int               `json:"page"`
		TotalPages  *int               `json:"total_pages"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}

	out := &HistoryPage{Items: data.Predictions, Page: page, TotalPages: 1}
	if out.Items == nil {
		out.Items = []PredictionRecord{}
	}
	out.Total = len(out.Items)
	if data.Total != nil {
		out.Total = *data.Total
	}
	if data.Page != nil {
		out.Page = *data.Page
	}
	if data.TotalPages != nil {
		out.TotalPages = *data.TotalPages
	}
	return out, nil
}

// Ask forwards a follow-up question about a finished analysis.
func (c *Client) Ask(ctx context.Context, article string, analysis any, question string) (string, error) {
	raw, err := c.post(ctx, "/api/ask", askTimeout, map[string]any{
		"article":  article,
		"analysis": analysis,
		"question": question,
	})
	if err != nil {
		return "", err
	}

	var data struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	if data.Answer == "" {
		return "Unable to generate a response.", nil
	}
	return data.Answer, nil
}

func (c *Client) get(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, timeout, nil)
}

func (c *Client) post(ctx context.Context, path string, timeout time.Duration, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("detector: encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, timeout, payload)
}

// do performs a single attempt. Unlike the LLM providers there is no retry
// loop here: failures surface verbatim and the caller decides.
func (c *Client) do(ctx context.Context, method, path string, timeout time.Duration, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("detector: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// decodeDocument parses a 2xx predict body and rejects explicit error fields,
// which some backend versions emit with status 200.
func decodeDocument(raw []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
	}
	if msg, ok := doc["error"]; ok && msg != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamMalformed, msg)
	}
	return doc, nil
}

// sourceName tolerates both the string and object forms of NewsAPI's source
// field.
func sourceName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "Unknown source"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Name != "" {
		return obj.Name
	}
	return "Unknown source"
}
