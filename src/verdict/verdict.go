// Package verdict turns four component credibility scores into the canonical
// analysis result: a weighted final score, a five-tier verdict, a risk level
// and a confidence label.
package verdict

import (
	"errors"
	"log"
	"math"
	"strings"
)

// Verdict is the five-tier credibility label, ordered from worst to best.
type Verdict string

const (
	Unreliable     Verdict = "UNRELIABLE"
	Questionable   Verdict = "QUESTIONABLE"
	CautionAdvised Verdict = "CAUTION_ADVISED"
	Credible       Verdict = "CREDIBLE"
	HighlyCredible Verdict = "HIGHLY_CREDIBLE"
)

// RiskLevel grades the fakeness probability (1 - final score).
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ConfidenceLevel describes agreement among the component scores. It is
// assessed by the upstream scorer and passed through, never recomputed here.
type ConfidenceLevel string

const (
	ConfidenceVeryHigh ConfidenceLevel = "very_high"
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
)

// ComponentScores holds the four independent credibility sub-signals, each in
// [0,1].
type ComponentScores struct {
	ModelAnalysis      float64 `json:"model_analysis"`
	WebSearch          float64 `json:"web_search"`
	SourceVerification float64 `json:"source_verification"`
	FactCheck          float64 `json:"fact_check"`
}

// Clamped returns a copy with every score forced into [0,1]. Upstream scorers
// are language models and occasionally emit out-of-range values.
func (c ComponentScores) Clamped() ComponentScores {
	return ComponentScores{
		ModelAnalysis:      Clamp01(c.ModelAnalysis),
		WebSearch:          Clamp01(c.WebSearch),
		SourceVerification: Clamp01(c.SourceVerification),
		FactCheck:          Clamp01(c.FactCheck),
	}
}

// Weights is the scoring policy: fixed per-component weights summing to 1.0,
// plus the calibration constants of the correction pass. One definition,
// passed by value; never mutated at runtime.
type Weights struct {
	ModelAnalysis      float64
	WebSearch          float64
	SourceVerification float64
	FactCheck          float64

	// CorrectionThreshold is the maximum absolute drift allowed between a
	// scorer's self-reported final score and the recomputed weighted sum
	// before the reported value is discarded. Calibration value, not a
	// principled constant.
	CorrectionThreshold float64
}

// DefaultWeights returns the production scoring policy.
func DefaultWeights() Weights {
	return Weights{
		ModelAnalysis:       0.50,
		WebSearch:           0.20,
		SourceVerification:  0.15,
		FactCheck:           0.15,
		CorrectionThreshold: 0.1,
	}
}

// FinalScore computes the weighted sum over clamped component scores. This is
// the single source of truth for the final credibility score.
func (w Weights) FinalScore(c ComponentScores) float64 {
	c = c.Clamped()
	return c.ModelAnalysis*w.ModelAnalysis +
		c.WebSearch*w.WebSearch +
		c.SourceVerification*w.SourceVerification +
		c.FactCheck*w.FactCheck
}

// FromScore maps a final credibility score to its verdict tier. Lower bounds
// are inclusive: 0.90 HIGHLY_CREDIBLE, 0.70 CREDIBLE, 0.50 CAUTION_ADVISED,
// 0.30 QUESTIONABLE, below that UNRELIABLE.
func FromScore(finalScore float64) Verdict {
	switch {
	case finalScore >= 0.90:
		return HighlyCredible
	case finalScore >= 0.70:
		return Credible
	case finalScore >= 0.50:
		return CautionAdvised
	case finalScore >= 0.30:
		return Questionable
	default:
		return Unreliable
	}
}

// RiskFromFakeness grades the fakeness probability. Its breakpoints
// (0.75/0.55/0.45) are deliberately not the mirror of the verdict table.
func RiskFromFakeness(fakeness float64) RiskLevel {
	switch {
	case fakeness >= 0.75:
		return RiskCritical
	case fakeness >= 0.55:
		return RiskHigh
	case fakeness >= 0.45:
		return RiskMedium
	default:
		return RiskLow
	}
}

// NormalizeConfidence maps a free-form confidence label from a scorer to the
// canonical enum, defaulting to medium for anything unrecognized.
func NormalizeConfidence(label string) ConfidenceLevel {
	switch canonicalLabel(label) {
	case "very_high":
		return ConfidenceVeryHigh
	case "high":
		return ConfidenceHigh
	case "low":
		return ConfidenceLow
	default:
		return ConfidenceMedium
	}
}

// Clamp01 forces v into [0,1].
func Clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// TwitterVerification summarizes verified social-platform mentions.
type TwitterVerification struct {
	Checked          bool     `json:"checked"`
	VerifiedMentions int      `json:"verified_mentions"`
	VerifiedAccounts []string `json:"verified_accounts,omitempty"`
	Confidence       float64  `json:"confidence,omitempty"`
}

// TrustedSource is an outlet that corroborated the article.
type TrustedSource struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Verified    bool   `json:"verified"`
	Credibility string `json:"credibility"`
}

// FactCheckResults lists fact-check database hits.
type FactCheckResults struct {
	Found   bool     `json:"found"`
	Sources []string `json:"sources,omitempty"`
}

// VerificationDetails carries the optional evidence sub-objects. These are
// only ever passed through from upstream, never synthesized.
type VerificationDetails struct {
	TwitterVerification *TwitterVerification `json:"twitter_verification,omitempty"`
	TrustedSources      []TrustedSource      `json:"trusted_sources,omitempty"`
	FactCheckResults    *FactCheckResults    `json:"fact_check_results,omitempty"`
}

// ComponentAccuracies breaks the overall accuracy estimate down per component.
type ComponentAccuracies struct {
	AIModel             float64  `json:"ai_model,omitempty"`
	WebSearch           float64  `json:"web_search,omitempty"`
	SourceVerification  float64  `json:"source_verification,omitempty"`
	TwitterVerification *float64 `json:"twitter_verification,omitempty"`
	FactCheck           float64  `json:"fact_check,omitempty"`
}

// AccuracyMetrics is the optional accuracy annex of an analysis.
type AccuracyMetrics struct {
	OverallAccuracy     float64             `json:"overall_accuracy"`
	ComponentAccuracies ComponentAccuracies `json:"component_accuracies"`
}

// Analysis is the canonical output schema shared by the LLM path and the
// detector path. Constructed once per request, never mutated afterwards.
type Analysis struct {
	FinalScore          float64              `json:"final_score"`
	ConfidenceLevel     ConfidenceLevel      `json:"confidence_level"`
	PrimaryVerdict      Verdict              `json:"primary_verdict"`
	ComponentScores     ComponentScores      `json:"component_scores"`
	KeyFindings         []string             `json:"key_findings"`
	RecommendedActions  []string             `json:"recommended_actions"`
	RiskLevel           RiskLevel            `json:"risk_level"`
	VerificationDetails *VerificationDetails `json:"verification_details,omitempty"`
	AccuracyMetrics     *AccuracyMetrics     `json:"accuracy_metrics,omitempty"`
}

// RawAssessment is the structured reply of an LLM scorer: component scores
// plus a self-reported final score and labels.
type RawAssessment struct {
	FinalScore          float64              `json:"final_score"`
	ConfidenceLevel     string               `json:"confidence_level"`
	PrimaryVerdict      string               `json:"primary_verdict"`
	ComponentScores     ComponentScores      `json:"component_scores"`
	KeyFindings         []string             `json:"key_findings"`
	RecommendedActions  []string             `json:"recommended_actions"`
	RiskLevel           string               `json:"risk_level"`
	VerificationDetails *VerificationDetails `json:"verification_details,omitempty"`
}

const (
	maxFindings = 4
	maxActions  = 3
)

// ErrAnalysisFailed reports that the scorer produced no usable assessment at
// all. A divergent score is corrected; an absent one is not guessed at.
var ErrAnalysisFailed = errors.New("verdict: scorer produced no analysis")

// Aggregator validates and re-derives a scorer's raw assessment into the
// canonical Analysis. Stateless apart from its weights; safe for concurrent
// use.
type Aggregator struct {
	weights Weights
}

// NewAggregator builds an Aggregator with the given scoring policy.
func NewAggregator(w Weights) Aggregator {
	return Aggregator{weights: w}
}

// Aggregate recomputes the weighted final score, corrects the scorer's
// self-reported value when it drifts beyond the correction threshold, and
// derives verdict and risk from the authoritative score. The scorer's
// confidence label is passed through.
func (a Aggregator) Aggregate(raw *RawAssessment) (*Analysis, error) {
	if raw == nil {
		return nil, ErrAnalysisFailed
	}

	scores := raw.ComponentScores.Clamped()
	computed := a.weights.FinalScore(scores)

	final := Clamp01(raw.FinalScore)
	if math.Abs(final-computed) > a.weights.CorrectionThreshold {
		// Language models are unreliable at arithmetic; the recomputed
		// weighted sum is authoritative. Recovered silently.
		log.Printf("verdict: correcting reported final score %.4f -> %.4f", final, computed)
		final = computed
	}

	findings := truncate(raw.KeyFindings, maxFindings)
	actions := truncate(raw.RecommendedActions, maxActions)
	if len(findings) == 0 && len(actions) == 0 {
		return nil, ErrAnalysisFailed
	}

	return &Analysis{
		FinalScore:          final,
		ConfidenceLevel:     NormalizeConfidence(raw.ConfidenceLevel),
		PrimaryVerdict:      FromScore(final),
		ComponentScores:     scores,
		KeyFindings:         findings,
		RecommendedActions:  actions,
		RiskLevel:           RiskFromFakeness(1 - final),
		VerificationDetails: raw.VerificationDetails,
	}, nil
}

func truncate(items []string, max int) []string {
	out := make([]string, 0, max)
	for _, s := range items {
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}

func canonicalLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.ReplaceAll(label, " ", "_")
	return strings.ReplaceAll(label, "-", "_")
}
