package analyst

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/veritas-ai/veritas/src/ai/core"
	"github.com/veritas-ai/veritas/src/verdict"
)

type fakeClient struct {
	reply string
	err   error
	// captured
	input string
	opts  core.Options
}

func (f *fakeClient) Respond(ctx context.Context, input string, opts core.Options) (string, error) {
	f.input = input
	f.opts = opts
	return f.reply, f.err
}

func (f *fakeClient) AnswerQuestion(ctx context.Context, content, question string, opts core.Options) (string, error) {
	return "answer about " + question, f.err
}

func TestAnalyzeParsesFencedReply(t *testing.T) {
	fc := &fakeClient{reply: "```json\n{\n" +
		`"final_score":0.88,"confidence_level":"very_high","primary_verdict":"CREDIBLE",` +
		`"component_scores":{"model_analysis":0.9,"web_search":0.85,"source_verification":0.8,"fact_check":0.95},` +
		`"key_findings":["Named sources","Corroborated by wires"],` +
		`"recommended_actions":["cite_sources","check_primary_sources"],"risk_level":"low"}` + "\n```"}
	a := New(fc, verdict.DefaultWeights())

	out, err := a.Analyze(context.Background(), "Some article text")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	// 0.88 vs computed 0.8825: inside the correction threshold, kept as-is.
	if math.Abs(out.FinalScore-0.88) > 1e-9 {
		t.Errorf("final score = %v, want 0.88", out.FinalScore)
	}
	if out.PrimaryVerdict != verdict.Credible {
		t.Errorf("verdict = %s, want CREDIBLE", out.PrimaryVerdict)
	}
	if !strings.Contains(fc.input, "Some article text") {
		t.Error("article text missing from prompt")
	}
	if !strings.Contains(fc.input, "model_analysis*0.50") {
		t.Errorf("prompt missing weight formula: %q", fc.input)
	}
	if fc.opts.SystemPrompt == "" {
		t.Error("system prompt not set")
	}
}

func TestAnalyzeCorrectsReportedScore(t *testing.T) {
	fc := &fakeClient{reply: `{"final_score":0.95,"confidence_level":"high","primary_verdict":"HIGHLY_CREDIBLE",` +
		`"component_scores":{"model_analysis":0.6,"web_search":0.6,"source_verification":0.6,"fact_check":0.6},` +
		`"key_findings":["a","b"],"recommended_actions":["x","y"],"risk_level":"low"}`}
	a := New(fc, verdict.DefaultWeights())

	out, err := a.Analyze(context.Background(), "text")
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if math.Abs(out.FinalScore-0.60) > 1e-9 {
		t.Errorf("final score = %v, want corrected 0.60", out.FinalScore)
	}
	if out.PrimaryVerdict != verdict.CautionAdvised {
		t.Errorf("verdict = %s, want CAUTION_ADVISED", out.PrimaryVerdict)
	}
}

func TestAnalyzeEmptyReply(t *testing.T) {
	for _, reply := range []string{"", "null", "{}", "```json\n```"} {
		fc := &fakeClient{reply: reply}
		a := New(fc, verdict.DefaultWeights())
		if _, err := a.Analyze(context.Background(), "text"); !errors.Is(err, verdict.ErrAnalysisFailed) {
			t.Errorf("reply %q: error = %v, want ErrAnalysisFailed", reply, err)
		}
	}
}

func TestAnalyzeProviderError(t *testing.T) {
	fc := &fakeClient{err: errors.New("rate_limit")}
	a := New(fc, verdict.DefaultWeights())
	if _, err := a.Analyze(context.Background(), "text"); err == nil {
		t.Fatal("expected error from provider")
	}
}

func TestAsk(t *testing.T) {
	fc := &fakeClient{}
	a := New(fc, verdict.DefaultWeights())
	answer, err := a.Ask(context.Background(), "article", "why unreliable?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if answer != "answer about why unreliable?" {
		t.Errorf("answer = %q", answer)
	}
}
