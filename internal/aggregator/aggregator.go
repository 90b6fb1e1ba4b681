package aggregator

import (
	"math"

	"text-detector-go/internal/types"
)

type Divergence int

const (
	DivergenceNone Divergence = iota
	DivergenceModerate
	DivergenceSignificant
)

func (d Divergence) String() string {
	switch d {
	case DivergenceSignificant:
		return "significant"
	case DivergenceModerate:
		return "moderate"
	default:
		return "none"
	}
}

// Metrics are derived on every render and never stored.
type Metrics struct {
	TotalSentences    int        `json:"total_sentences"`
	AICount           int        `json:"ai_count"`
	HumanCount        int        `json:"human_count"`
	OverallProb       float64    `json:"overall_prob"`
	SentenceBasedProb float64    `json:"sentence_based_prob"`
	AvgProb           float64    `json:"avg_prob"`
	HasAvg            bool       `json:"has_avg"`
	Difference        float64    `json:"difference"`
	Divergence        Divergence `json:"-"`
	DivergenceLabel   string     `json:"divergence"`
}

// Aggregate derives the summary statistics for one analysis result. The
// API's overall probability and the sentence-count estimate are reported
// side by side and never reconciled.
func Aggregate(r types.AnalysisResult) Metrics {
	m := Metrics{
		TotalSentences: len(r.SentenceLevelResults),
		OverallProb:    r.AIProbability,
	}
	sum := 0.0
	for _, s := range r.SentenceLevelResults {
		if s.IsAI {
			m.AICount++
		}
		sum += s.AIProbability
	}
	m.HumanCount = m.TotalSentences - m.AICount
	if m.TotalSentences > 0 {
		m.SentenceBasedProb = float64(m.AICount) / float64(m.TotalSentences)
		m.AvgProb = sum / float64(m.TotalSentences)
		m.HasAvg = true
	}
	m.Difference = math.Abs(m.OverallProb - m.SentenceBasedProb)
	if m.TotalSentences > 0 {
		m.Divergence = ClassifyDivergence(m.Difference)
	}
	m.DivergenceLabel = m.Divergence.String()
	return m
}

// ClassifyDivergence applies the strict > 0.2 / > 0.1 cut-offs.
func ClassifyDivergence(diff float64) Divergence {
	switch {
	case diff > 0.2:
		return DivergenceSignificant
	case diff > 0.1:
		return DivergenceModerate
	default:
		return DivergenceNone
	}
}
