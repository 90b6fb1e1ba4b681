package actionable

import (
	"strings"
	"testing"

	"text-detector-go/internal/aggregator"
	"text-detector-go/internal/types"
)

func metricsFor(overall float64, sentences ...types.SentenceResult) aggregator.Metrics {
	return aggregator.Aggregate(types.AnalysisResult{AIProbability: overall, SentenceLevelResults: sentences})
}

func TestGenerateHiddenAtBoundary(t *testing.T) {
	m := metricsFor(0.6,
		types.SentenceResult{Sentence: "A.", AIProbability: 0.8, IsAI: true},
		types.SentenceResult{Sentence: "B.", AIProbability: 0.2},
	)
	if _, ok := Generate(m); ok {
		t.Fatal("panel must not be shown when the difference is exactly 0.1")
	}
}

func TestGenerateModerateAndSignificant(t *testing.T) {
	ai := types.SentenceResult{Sentence: "A.", AIProbability: 0.9, IsAI: true}

	a, ok := Generate(metricsFor(0.85, ai, ai))
	if !ok || a.Level != "moderate" || !strings.HasPrefix(a.Message, "Moderate") {
		t.Fatalf("moderate panel = %+v, %v", a, ok)
	}
	if a.APIProb != "85.0%" || a.SentenceBasedProb != "100.0%" || a.Difference != "15.0%" {
		t.Fatalf("panel figures = %+v", a)
	}

	a, ok = Generate(metricsFor(0.5, ai, ai))
	if !ok || a.Level != "significant" || !strings.HasPrefix(a.Message, "Significant") {
		t.Fatalf("significant panel = %+v, %v", a, ok)
	}
	if a.Color == "" || a.Title == "" {
		t.Fatalf("panel missing presentation fields: %+v", a)
	}
}

func TestGenerateNoSentences(t *testing.T) {
	if _, ok := Generate(metricsFor(0.95)); ok {
		t.Fatal("panel must not be shown without sentences")
	}
}
