// Package normalize reconciles the heterogeneous JSON shapes of the external
// detection service into the canonical verdict.Analysis schema, tolerating
// missing fields via deterministic fallbacks and synthetic component scores.
package normalize

import (
	"math"

	"github.com/veritas-ai/veritas/src/verdict"
)

// Options holds the normalizer's calibration constants. These are shipped
// values, not principled invariants; keep them named and in one place.
type Options struct {
	// NeutralScore is the "no information" default for an absent component
	// signal. The midpoint avoids biasing the weighted sum either way.
	NeutralScore float64
	// NeutralEpsilon is the tolerance for treating an extracted score as
	// the neutral default.
	NeutralEpsilon float64
	// SyntheticTrigger is how far the aggregate credibility must sit from
	// neutral before synthetic component scores are generated.
	SyntheticTrigger float64
	// JitterHalfWidth bounds the synthetic per-component spread.
	JitterHalfWidth float64
}

// DefaultOptions returns the production calibration.
func DefaultOptions() Options {
	return Options{
		NeutralScore:     0.5,
		NeutralEpsilon:   0.01,
		SyntheticTrigger: 0.1,
		JitterHalfWidth:  0.075,
	}
}

// Normalizer transforms decoded detection-service payloads into the canonical
// analysis schema. Stateless; safe for concurrent use.
type Normalizer struct {
	weights verdict.Weights
	opts    Options
}

// New builds a Normalizer with the given scoring policy and calibration.
func New(w verdict.Weights, opts Options) Normalizer {
	return Normalizer{weights: w, opts: opts}
}

// classificationScores maps the detection service's classification strings to
// representative credibility scores. Feeding these through verdict.FromScore
// reproduces the historical string-to-tier table while keeping a single
// threshold definition.
var classificationScores = map[string]float64{
	"very_likely_fake":  0.15, // UNRELIABLE
	"likely_fake":       0.40, // QUESTIONABLE
	"possibly_fake":     0.55, // CAUTION_ADVISED
	"uncertain":         0.55, // CAUTION_ADVISED
	"possibly_real":     0.75, // CREDIBLE
	"likely_real":       0.85, // CREDIBLE
	"insufficient_data": 0.55, // CAUTION_ADVISED
}

// VerdictForClassification resolves a classification string through the
// canonical numeric derivation, defaulting to CAUTION_ADVISED.
func VerdictForClassification(classification string) verdict.Verdict {
	score, ok := classificationScores[classification]
	if !ok {
		score = 0.55
	}
	return verdict.FromScore(score)
}

// ToCredibility converts a fakeness-space score to credibility space. Every
// raw score off the wire goes through this exactly once; the two spaces must
// never mix in one computation.
func ToCredibility(fakeness float64) float64 {
	return verdict.Clamp01(1 - fakeness)
}

// Transform renders a decoded payload into the canonical analysis. seed is
// the raw response body; the synthetic-score jitter stream is derived from it
// so identical upstream responses normalize identically.
func (n Normalizer) Transform(doc map[string]any, seed []byte) *verdict.Analysis {
	p := payload{doc: doc}
	neutral := n.opts.NeutralScore

	fakeness := p.fakenessProbability()
	finalScore := ToCredibility(fakeness)

	raw := [4]float64{
		p.modelScore(neutral),
		p.webSearchScore(neutral),
		p.sourceScore(neutral),
		p.factCheckScore(neutral),
	}

	scores := n.componentScores(raw, fakeness, finalScore, seed)

	findings := p.keyInsights()
	recommendation := p.recommendation()
	if len(findings) == 0 {
		findings = []string{recommendation}
	}

	details := p.verificationDetails()

	return &verdict.Analysis{
		FinalScore:          finalScore,
		ConfidenceLevel:     verdict.NormalizeConfidence(p.confidenceLabel()),
		PrimaryVerdict:      VerdictForClassification(p.classification()),
		ComponentScores:     scores,
		KeyFindings:         findings,
		RecommendedActions:  recommendedActions(recommendation, fakeness),
		RiskLevel:           verdict.RiskFromFakeness(fakeness),
		VerificationDetails: details,
		AccuracyMetrics:     accuracyMetrics(finalScore, scores, details),
	}
}

// componentScores converts the extracted raw scores to credibility space, or
// synthesizes a spread around the aggregate when the payload carried no real
// per-component signal. Synthesis applies only to these four numbers, never
// to verification details.
func (n Normalizer) componentScores(raw [4]float64, fakeness, finalScore float64, seed []byte) verdict.ComponentScores {
	allDefault := true
	for _, s := range raw {
		if math.Abs(s-n.opts.NeutralScore) >= n.opts.NeutralEpsilon {
			allDefault = false
			break
		}
	}

	if allDefault && math.Abs(finalScore-n.opts.NeutralScore) > n.opts.SyntheticTrigger {
		// The upstream reply held only a single aggregate signal. Four
		// identical bars read as broken in the UI, so spread the
		// components around the true aggregate without inventing a
		// signal direction. Known design smell inherited from the
		// product; the spread is deterministic in the response body.
		base := 1 - fakeness
		j := newJitter(seed, n.opts.JitterHalfWidth)
		return verdict.ComponentScores{
			ModelAnalysis:      verdict.Clamp01(base + j.next()),
			WebSearch:          verdict.Clamp01(base + j.next()),
			SourceVerification: verdict.Clamp01(base + j.next()),
			FactCheck:          verdict.Clamp01(base + j.next()),
		}
	}

	return verdict.ComponentScores{
		ModelAnalysis:      ToCredibility(raw[0]),
		WebSearch:          ToCredibility(raw[1]),
		SourceVerification: ToCredibility(raw[2]),
		FactCheck:          ToCredibility(raw[3]),
	}
}

func recommendedActions(recommendation string, fakeness float64) []string {
	switch {
	case recommendation == "DO NOT SHARE" || fakeness > 0.75:
		return []string{"do_not_share", "verify_with_experts"}
	case recommendation == "VERIFY BEFORE SHARING" || fakeness > 0.45:
		return []string{"verify_before_sharing", "check_primary_sources"}
	default:
		return []string{"share_with_caution", "cite_sources"}
	}
}

func accuracyMetrics(finalScore float64, scores verdict.ComponentScores, details *verdict.VerificationDetails) *verdict.AccuracyMetrics {
	metrics := &verdict.AccuracyMetrics{
		OverallAccuracy: finalScore,
		ComponentAccuracies: verdict.ComponentAccuracies{
			AIModel:            scores.ModelAnalysis,
			WebSearch:          scores.WebSearch,
			SourceVerification: scores.SourceVerification,
			FactCheck:          scores.FactCheck,
		},
	}
	if details != nil && details.TwitterVerification != nil {
		conf := details.TwitterVerification.Confidence
		if conf == 0 {
			conf = 0.7
		}
		metrics.ComponentAccuracies.TwitterVerification = &conf
	}
	return metrics
}

// verificationDetails passes through the optional evidence sub-objects. Absent
// pieces stay absent; fabricated trusted sources would be a correctness bug,
// not a cosmetic one.
func (p payload) verificationDetails() *verdict.VerificationDetails {
	vr := p.section("verification_result")
	if vr == nil {
		return nil
	}
	sub := payload{doc: vr}

	details := &verdict.VerificationDetails{}

	if tw := sub.section("twitter_verification"); tw != nil {
		if checked, _ := tw["checked"].(bool); checked {
			mentions, _ := firstNumber(tw, "verified_mentions")
			conf, _ := firstNumber(tw, "confidence")
			details.TwitterVerification = &verdict.TwitterVerification{
				Checked:          true,
				VerifiedMentions: int(mentions),
				VerifiedAccounts: stringSlice(tw["verified_accounts"]),
				Confidence:       conf,
			}
		}
	}

	if sources, ok := vr["trusted_sources"].([]any); ok {
		for _, item := range sources {
			src, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := payloadString(src, "name")
			if name == "" {
				name = "Unknown"
			}
			credibility := payloadString(src, "credibility")
			if credibility == "" {
				credibility = "medium"
			}
			verified, _ := src["verified"].(bool)
			details.TrustedSources = append(details.TrustedSources, verdict.TrustedSource{
				Name:        name,
				URL:         payloadString(src, "url"),
				Verified:    verified,
				Credibility: credibility,
			})
		}
	}

	if fc := sub.section("fact_check_results"); fc != nil {
		found, _ := fc["found"].(bool)
		details.FactCheckResults = &verdict.FactCheckResults{
			Found:   found,
			Sources: stringSlice(fc["sources"]),
		}
	}

	return details
}
