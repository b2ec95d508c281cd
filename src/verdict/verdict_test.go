package verdict

import (
	"math"
	"testing"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	sum := w.ModelAnalysis + w.WebSearch + w.SourceVerification + w.FactCheck
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %f, want 1.0", sum)
	}
}

func TestFinalScoreWeightedSum(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		name   string
		scores ComponentScores
		want   float64
	}{
		{
			name:   "strong article",
			scores: ComponentScores{ModelAnalysis: 0.9, SourceVerification: 0.8, WebSearch: 0.85, FactCheck: 0.95},
			want:   0.8825,
		},
		{
			name:   "weak article",
			scores: ComponentScores{ModelAnalysis: 0.1, SourceVerification: 0.2, WebSearch: 0.15, FactCheck: 0.05},
			want:   0.1175,
		},
		{
			name:   "all ones",
			scores: ComponentScores{ModelAnalysis: 1, SourceVerification: 1, WebSearch: 1, FactCheck: 1},
			want:   1.0,
		},
		{
			name:   "out of range clamped",
			scores: ComponentScores{ModelAnalysis: 1.5, SourceVerification: -0.2, WebSearch: 1, FactCheck: 1},
			want:   0.5*1 + 0.15*0 + 0.2*1 + 0.15*1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.FinalScore(tt.scores)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("FinalScore() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestFromScoreBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  Verdict
	}{
		{1.0, HighlyCredible},
		{0.90, HighlyCredible},
		{0.899999, Credible},
		{0.70, Credible},
		{0.69999, CautionAdvised},
		{0.50, CautionAdvised},
		{0.499999, Questionable},
		{0.30, Questionable},
		{0.299999, Unreliable},
		{0.0, Unreliable},
	}
	for _, tt := range tests {
		if got := FromScore(tt.score); got != tt.want {
			t.Errorf("FromScore(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestFromScoreMonotonic(t *testing.T) {
	order := map[Verdict]int{
		Unreliable: 0, Questionable: 1, CautionAdvised: 2, Credible: 3, HighlyCredible: 4,
	}
	prev := -1
	for s := 0.0; s <= 1.0; s += 0.001 {
		rank := order[FromScore(s)]
		if rank < prev {
			t.Fatalf("verdict rank decreased at score %v", s)
		}
		prev = rank
	}
}

func TestRiskFromFakenessBoundaries(t *testing.T) {
	tests := []struct {
		fakeness float64
		want     RiskLevel
	}{
		{0.80, RiskCritical},
		{0.75, RiskCritical},
		{0.749999, RiskHigh},
		{0.55, RiskHigh},
		{0.549999, RiskMedium},
		{0.45, RiskMedium},
		{0.449999, RiskLow},
		{0.0, RiskLow},
	}
	for _, tt := range tests {
		if got := RiskFromFakeness(tt.fakeness); got != tt.want {
			t.Errorf("RiskFromFakeness(%v) = %s, want %s", tt.fakeness, got, tt.want)
		}
	}
}

// The risk and verdict tables are different partitions of [0,1], not mirror
// images of each other.
func TestRiskVerdictIndependence(t *testing.T) {
	// final 0.50: verdict tier boundary, risk squarely medium.
	if v := FromScore(0.50); v != CautionAdvised {
		t.Fatalf("FromScore(0.50) = %s", v)
	}
	if r := RiskFromFakeness(1 - 0.50); r != RiskMedium {
		t.Fatalf("RiskFromFakeness(0.50) = %s", r)
	}
	// final 0.46: verdict says QUESTIONABLE, risk only medium. The
	// partitions disagree here, which is the intended asymmetry.
	if v := FromScore(0.46); v != Questionable {
		t.Fatalf("FromScore(0.46) = %s", v)
	}
	if r := RiskFromFakeness(1 - 0.46); r != RiskMedium {
		t.Fatalf("RiskFromFakeness(0.54) = %s", r)
	}
}

func TestAggregateCorrection(t *testing.T) {
	agg := NewAggregator(DefaultWeights())

	tests := []struct {
		name     string
		reported float64
		scores   ComponentScores
		want     float64
	}{
		{
			name:     "minor drift passes through",
			reported: 0.90,
			scores:   ComponentScores{ModelAnalysis: 0.9, SourceVerification: 0.8, WebSearch: 0.85, FactCheck: 0.95},
			want:     0.90, // computed 0.8825, drift 0.0175 <= 0.1
		},
		{
			name:     "wild drift corrected",
			reported: 0.95,
			scores:   ComponentScores{ModelAnalysis: 0.6, SourceVerification: 0.6, WebSearch: 0.6, FactCheck: 0.6},
			want:     0.60,
		},
		{
			name:     "exactly at threshold passes through",
			reported: 0.70,
			scores:   ComponentScores{ModelAnalysis: 0.6, SourceVerification: 0.6, WebSearch: 0.6, FactCheck: 0.6},
			want:     0.70, // drift exactly 0.1, not > 0.1
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &RawAssessment{
				FinalScore:         tt.reported,
				ConfidenceLevel:    "high",
				ComponentScores:    tt.scores,
				KeyFindings:        []string{"finding one", "finding two"},
				RecommendedActions: []string{"check_primary_sources", "verify_with_experts"},
			}
			out, err := agg.Aggregate(raw)
			if err != nil {
				t.Fatalf("Aggregate() error: %v", err)
			}
			if math.Abs(out.FinalScore-tt.want) > 1e-9 {
				t.Errorf("final score = %.6f, want %.6f", out.FinalScore, tt.want)
			}
		})
	}
}

func TestAggregateCorrectionChangesVerdict(t *testing.T) {
	agg := NewAggregator(DefaultWeights())
	raw := &RawAssessment{
		FinalScore:         0.95,
		ConfidenceLevel:    "very_high",
		ComponentScores:    ComponentScores{ModelAnalysis: 0.6, SourceVerification: 0.6, WebSearch: 0.6, FactCheck: 0.6},
		KeyFindings:        []string{"a", "b"},
		RecommendedActions: []string{"x", "y"},
	}
	out, err := agg.Aggregate(raw)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if out.PrimaryVerdict != CautionAdvised {
		t.Errorf("verdict = %s, want CAUTION_ADVISED after correction", out.PrimaryVerdict)
	}
	if out.RiskLevel != RiskMedium {
		t.Errorf("risk = %s, want medium", out.RiskLevel)
	}
}

func TestAggregateNilAssessment(t *testing.T) {
	agg := NewAggregator(DefaultWeights())
	if _, err := agg.Aggregate(nil); err != ErrAnalysisFailed {
		t.Fatalf("Aggregate(nil) error = %v, want ErrAnalysisFailed", err)
	}
}

func TestAggregateTruncatesLists(t *testing.T) {
	agg := NewAggregator(DefaultWeights())
	raw := &RawAssessment{
		FinalScore:         0.5,
		ComponentScores:    ComponentScores{ModelAnalysis: 0.5, SourceVerification: 0.5, WebSearch: 0.5, FactCheck: 0.5},
		KeyFindings:        []string{"1", "2", "3", "4", "5", "6"},
		RecommendedActions: []string{"a", "b", "c", "d"},
	}
	out, err := agg.Aggregate(raw)
	if err != nil {
		t.Fatalf("Aggregate() error: %v", err)
	}
	if len(out.KeyFindings) != 4 {
		t.Errorf("findings length = %d, want 4", len(out.KeyFindings))
	}
	if len(out.RecommendedActions) != 3 {
		t.Errorf("actions length = %d, want 3", len(out.RecommendedActions))
	}
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		in   string
		want ConfidenceLevel
	}{
		{"very high", ConfidenceVeryHigh},
		{"VERY_HIGH", ConfidenceVeryHigh},
		{"high", ConfidenceHigh},
		{"medium", ConfidenceMedium},
		{"low", ConfidenceLow},
		{"unknown", ConfidenceMedium},
		{"", ConfidenceMedium},
	}
	for _, tt := range tests {
		if got := NormalizeConfidence(tt.in); got != tt.want {
			t.Errorf("NormalizeConfidence(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
