package detector

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/veritas-ai/veritas/src/normalize"
	"github.com/veritas-ai/veritas/src/verdict"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New(srv.URL, normalize.New(verdict.DefaultWeights(), normalize.DefaultOptions()))
	return c, srv
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotBody map[string]string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/predict" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"final_verdict":{"fakeness_probability":0.82,"classification":"very_likely_fake"},
			"component_analysis":{"transformer_analysis":{"ensemble_score":0.85}}}`))
	})
	defer srv.Close()

	out, err := c.Analyze(context.Background(), "some headline", "user-1")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if gotBody["text"] != "some headline" || gotBody["headline"] != "some headline" {
		t.Errorf("request body = %v, want text and headline both set", gotBody)
	}
	if gotBody["user_id"] != "user-1" {
		t.Errorf("user_id = %q", gotBody["user_id"])
	}
	if out.PrimaryVerdict != verdict.Unreliable {
		t.Errorf("verdict = %s, want UNRELIABLE", out.PrimaryVerdict)
	}
	if math.Abs(out.FinalScore-0.18) > 1e-9 {
		t.Errorf("final score = %v, want 0.18", out.FinalScore)
	}
}

func TestAnalyzeNon2xx(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})
	defer srv.Close()

	_, err := c.Analyze(context.Background(), "text", "")
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("error = %v, want ErrUpstreamUnavailable", err)
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error message missing status/body: %v", err)
	}
}

func TestAnalyzeErrorField(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"text too short"}`))
	})
	defer srv.Close()

	_, err := c.Analyze(context.Background(), "x", "")
	if !errors.Is(err, ErrUpstreamMalformed) {
		t.Fatalf("error = %v, want ErrUpstreamMalformed", err)
	}
	if !strings.Contains(err.Error(), "text too short") {
		t.Errorf("error message missing upstream detail: %v", err)
	}
}

func TestAnalyzeBadJSON(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>proxy error</html>`))
	})
	defer srv.Close()

	_, err := c.Analyze(context.Background(), "text", "")
	if !errors.Is(err, ErrUpstreamMalformed) {
		t.Fatalf("error = %v, want ErrUpstreamMalformed", err)
	}
}

func TestNewsMapsArticles(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("topic"); got != "science" {
			t.Errorf("topic = %q", got)
		}
		_, _ = w.Write([]byte(`{"articles":[
			{"title":"Headline","description":"Summary","url":"https://x","source":{"name":"Reuters"}},
			{"description":"Only description","source":"AP"},
			{}]}`))
	})
	defer srv.Close()

	articles, err := c.News(context.Background(), "science")
	if err != nil {
		t.Fatalf("News() error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("article count = %d", len(articles))
	}
	if articles[0].Headline != "Headline" || articles[0].Source != "Reuters" || articles[0].Category != "science" {
		t.Errorf("first article = %+v", articles[0])
	}
	if articles[1].Headline != "Only description" || articles[1].Source != "AP" {
		t.Errorf("second article = %+v", articles[1])
	}
	if articles[2].Headline != "Untitled article" || articles[2].Source != "Unknown source" {
		t.Errorf("third article = %+v", articles[2])
	}
}

func TestQuizRoundTrip(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"question":"Q","correct_answer":"real","explanation":"E","source":"S"}`))
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"correct":true,"points_earned":10,"total_points":110,"level":2,"leveled_up":true}`))
		}
	})
	defer srv.Close()

	q, err := c.Quiz(context.Background(), "politics")
	if err != nil {
		t.Fatalf("Quiz() error: %v", err)
	}
	if !q.IsReal || q.Text != "Q" {
		t.Errorf("question = %+v", q)
	}

	res, err := c.SubmitQuiz(context.Background(), QuizSubmission{Question: "Q", Answer: "REAL", CorrectAnswer: "REAL", Topic: "politics"})
	if err != nil {
		t.Fatalf("SubmitQuiz() error: %v", err)
	}
	if !res.Correct || res.PointsEarned != 10 || !res.LeveledUp {
		t.Errorf("result = %+v", res)
	}
	if res.Message != "Answer submitted" {
		t.Errorf("default message not applied: %q", res.Message)
	}
}

func TestHistoryDefaults(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("per_page") != "20" || q.Get("user_id") != "u1" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"predictions":[{"id":1,"headline":"H","prediction":"FAKE","confidence":0.9}]}`))
	})
	defer srv.Close()

	page, err := c.History(context.Background(), 2, 20, "u1")
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if page.Total != 1 || page.Page != 2 || page.TotalPages != 1 {
		t.Errorf("page meta = %+v", page)
	}
	if page.Items[0].Headline != "H" {
		t.Errorf("items = %+v", page.Items)
	}
}

func TestAskFallbackAnswer(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer srv.Close()

	answer, err := c.Ask(context.Background(), "article", nil, "why?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if answer != "Unable to generate a response." {
		t.Errorf("answer = %q", answer)
	}
}
