// Package analyst runs the multi-component credibility assessment prompt
// against an LLM provider and passes the structured reply through the verdict
// aggregator's consistency pass.
package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veritas-ai/veritas/src/ai/core"
	"github.com/veritas-ai/veritas/src/verdict"
)

const systemPrompt = "You are an expert fact-checking AI system. You always reply with a single JSON object matching the requested schema, with no surrounding prose."

const promptTemplate = `**VERITAS AI ULTIMATE ANALYSIS PROTOCOL**

Your task is to perform a multi-dimensional analysis of the provided text and synthesize the findings into a final, weighted score and verdict.

**ARTICLE FOR ANALYSIS:**
"""
%s
"""

**STEP 1: SIMULATE FOUR INDEPENDENT ANALYSIS COMPONENTS**

**COMPONENT A: Model Analysis (Weight: %.0f%%)**
Perform a deep linguistic and claims analysis: claim verifiability, rhetorical techniques, bias, emotional manipulation, source attribution quality, logical consistency. Assign "model_analysis" from 0.0 (highly unreliable) to 1.0 (highly reliable).

**COMPONENT B: Source Verification (Weight: %.0f%%)**
If a source is mentioned, evaluate its general reputation against journalistic standards (Tier 1 wire services ~0.95, major broadsheets ~0.8, cable networks ~0.6, local outlets ~0.4, blogs or unknown ~0.15). If no source is mentioned, assign a low score. Assign "source_verification" from 0.0 to 1.0.

**COMPONENT C: Web Search Simulation (Weight: %.0f%%)**
Simulate a search for the key claims across major reputable outlets. Strong consensus yields a high score; no coverage or conflicting reports yield a low score. Assign "web_search" from 0.0 to 1.0.

**COMPONENT D: Fact-Check Database Simulation (Weight: %.0f%%)**
Simulate a lookup in major fact-checking databases (Snopes, PolitiFact, FactCheck.org). A debunked claim gets a very low "fact_check" score, a verified one a high score, unproven or unfound a medium-to-low score.

**STEP 2: CALCULATE FINAL WEIGHTED SCORE**

final_score = model_analysis*%.2f + source_verification*%.2f + web_search*%.2f + fact_check*%.2f

**STEP 3: DETERMINE FINAL VERDICT AND CONFIDENCE**

Verdict thresholds on final_score: 90-100%% HIGHLY_CREDIBLE (low risk), 70-89%% CREDIBLE (low risk), 50-69%% CAUTION_ADVISED (medium risk), 30-49%% QUESTIONABLE (high risk), 0-29%% UNRELIABLE (critical risk).
Set "confidence_level" from the agreement between your components: all pointing the same way means "very_high"; mixed signals mean "medium" or "low".

**STEP 4: GENERATE KEY FINDINGS AND RECOMMENDATIONS**

"key_findings": 2-4 short bullet points with the most critical insights.
"recommended_actions": 2-3 action tags (e.g. "verify_with_experts", "check_primary_sources", "be_wary_of_emotional_language").

**STEP 5: COMPILE THE FINAL JSON OUTPUT**

Reply with one JSON object containing exactly: final_score, confidence_level, primary_verdict, component_scores {model_analysis, web_search, source_verification, fact_check}, key_findings, recommended_actions, risk_level.`

// Analyst owns the prompt and the deterministic consistency pass over the
// model's reply.
type Analyst struct {
	client     core.Client
	aggregator verdict.Aggregator
	weights    verdict.Weights
}

// New builds an Analyst on top of the given provider client.
func New(client core.Client, w verdict.Weights) *Analyst {
	return &Analyst{
		client:     client,
		aggregator: verdict.NewAggregator(w),
		weights:    w,
	}
}

// Analyze scores an article end to end: prompt, parse, aggregate.
func (a *Analyst) Analyze(ctx context.Context, text string) (*verdict.Analysis, error) {
	prompt := a.buildPrompt(text)

	reply, err := a.client.Respond(ctx, prompt, core.Options{SystemPrompt: systemPrompt})
	if err != nil {
		return nil, fmt.Errorf("analyst: scorer call: %w", err)
	}

	raw, err := parseAssessment(reply)
	if err != nil {
		return nil, err
	}
	return a.aggregator.Aggregate(raw)
}

// Ask answers a follow-up question about an analyzed article.
func (a *Analyst) Ask(ctx context.Context, article, question string) (string, error) {
	return a.client.AnswerQuestion(ctx, article, question, core.Options{})
}

func (a *Analyst) buildPrompt(text string) string {
	w := a.weights
	return fmt.Sprintf(promptTemplate,
		text,
		w.ModelAnalysis*100, w.SourceVerification*100, w.WebSearch*100, w.FactCheck*100,
		w.ModelAnalysis, w.SourceVerification, w.WebSearch, w.FactCheck,
	)
}

// parseAssessment decodes the model's JSON reply. Models occasionally wrap
// the object in a markdown code fence; strip that first.
func parseAssessment(reply string) (*verdict.RawAssessment, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "null" || cleaned == "{}" {
		return nil, verdict.ErrAnalysisFailed
	}

	var raw verdict.RawAssessment
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("analyst: parse scorer reply: %w", err)
	}
	return &raw, nil
}
