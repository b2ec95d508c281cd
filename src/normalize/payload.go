package normalize

import (
	"strconv"
	"strings"
)

// Variant names a known historical response shape of the detection service.
type Variant string

const (
	// VariantTransformer carries a transformer-ensemble breakdown under
	// component_analysis.transformer_analysis.
	VariantTransformer Variant = "transformer"
	// VariantSimpleAI carries a single ai_analysis score.
	VariantSimpleAI Variant = "simple_ai"
	// VariantNLP carries an nlp_analysis score.
	VariantNLP Variant = "nlp"
	// VariantLegacy has no per-component breakdown, only a top-level
	// confidence or prediction flag.
	VariantLegacy Variant = "legacy"
)

// payload wraps a decoded upstream document with tolerant field access. The
// detection service has shipped several response shapes over time; every
// accessor probes a prioritized candidate list and the first numeric hit wins.
type payload struct {
	doc map[string]any
}

func (p payload) section(keys ...string) map[string]any {
	cur := p.doc
	for _, k := range keys {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func (p payload) components() map[string]any   { return p.section("component_analysis") }
func (p payload) finalVerdict() map[string]any { return p.section("final_verdict") }

// variant classifies the payload by the highest-priority component section
// that actually carries a numeric score.
func (p payload) variant() Variant {
	comp := payload{doc: p.components()}
	if tr := comp.section("transformer_analysis"); tr != nil {
		if _, ok := firstNumber(tr, "ensemble_score", "score"); ok {
			return VariantTransformer
		}
	}
	if ai := comp.section("ai_analysis"); ai != nil {
		if _, ok := firstNumber(ai, "score"); ok {
			return VariantSimpleAI
		}
	}
	if nlp := comp.section("nlp_analysis"); nlp != nil {
		if _, ok := firstNumber(nlp, "score"); ok {
			return VariantNLP
		}
	}
	return VariantLegacy
}

// modelScore extracts the linguistic/claims signal for the classified variant,
// falling back to the top-level confidence for legacy payloads.
func (p payload) modelScore(neutral float64) float64 {
	comp := payload{doc: p.components()}
	switch p.variant() {
	case VariantTransformer:
		if v, ok := firstNumber(comp.section("transformer_analysis"), "ensemble_score", "score"); ok {
			return v
		}
	case VariantSimpleAI:
		if v, ok := firstNumber(comp.section("ai_analysis"), "score", "confidence"); ok {
			return v
		}
	case VariantNLP:
		if v, ok := firstNumber(comp.section("nlp_analysis"), "score", "confidence"); ok {
			return v
		}
	}
	if v, ok := firstNumber(p.doc, "confidence"); ok {
		return v
	}
	if v, ok := firstNumber(p.finalVerdict(), "confidence"); ok {
		return v
	}
	return neutral
}

func (p payload) webSearchScore(neutral float64) float64 {
	comp := payload{doc: p.components()}
	if v, ok := firstNumber(comp.section("google_news_verification"), "score", "credibility_score", "confidence"); ok {
		return v
	}
	return neutral
}

func (p payload) sourceScore(neutral float64) float64 {
	comp := payload{doc: p.components()}
	if v, ok := firstNumber(comp.section("source_verification"), "score", "credibility_score", "source_credibility", "confidence"); ok {
		return v
	}
	return neutral
}

func (p payload) factCheckScore(neutral float64) float64 {
	comp := payload{doc: p.components()}
	if v, ok := firstNumber(comp.section("fact_check_verification"), "score", "credibility_score", "confidence"); ok {
		return v
	}
	return neutral
}

// fakenessProbability probes the final verdict, then the top level, then
// infers from a bare prediction flag.
func (p payload) fakenessProbability() float64 {
	if v, ok := firstNumber(p.finalVerdict(), "fakeness_probability"); ok {
		return v
	}
	if v, ok := firstNumber(p.doc, "fakeness_probability"); ok {
		return v
	}
	switch strings.ToUpper(p.stringAt("prediction")) {
	case "FAKE":
		return 0.7
	case "REAL":
		return 0.3
	}
	return 0.5
}

func (p payload) classification() string {
	for _, candidate := range []string{
		payloadString(p.finalVerdict(), "classification"),
		p.stringAt("classification"),
		p.stringAt("prediction"),
	} {
		if candidate != "" {
			return strings.ToLower(candidate)
		}
	}
	return "uncertain"
}

func (p payload) confidenceLabel() string {
	if s := payloadString(p.finalVerdict(), "confidence_level"); s != "" {
		return s
	}
	if s := p.stringAt("confidence_level"); s != "" {
		return s
	}
	return "medium"
}

func (p payload) recommendation() string {
	if s := payloadString(p.finalVerdict(), "recommendation"); s != "" {
		return s
	}
	if s := p.stringAt("recommendation"); s != "" {
		return s
	}
	return "VERIFY BEFORE SHARING"
}

func (p payload) keyInsights() []string {
	for _, key := range []string{"key_insights", "key_findings", "indicators"} {
		if items := stringSlice(p.doc[key]); len(items) > 0 {
			return items
		}
	}
	return nil
}

func (p payload) stringAt(key string) string {
	return payloadString(p.doc, key)
}

func payloadString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// firstNumber returns the first candidate field holding a usable number.
// Numeric strings count; anything else is skipped.
func firstNumber(m map[string]any, keys ...string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	for _, k := range keys {
		if v, ok := asNumber(m[k]); ok {
			return v, true
		}
	}
	return 0, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
