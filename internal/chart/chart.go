package chart

import (
	"fmt"

	"text-detector-go/internal/classify"
	"text-detector-go/internal/types"
)

const (
	Title          = "AI Probability by Sentence"
	XAxisTitle     = "Sentences"
	YAxisTitle     = "AI Probability"
	Threshold      = 0.5
	ThresholdLabel = "Threshold (50%)"
)

type Bar struct {
	Label string
	Value float64
	Color string
	Hover string
}

// Spec is the library-neutral description of the sentence chart.
type Spec struct {
	Bars           []Bar
	Threshold      float64
	ThresholdLabel string
}

// Build derives one bar per sentence labelled S1..Sn.
func Build(sentences []types.SentenceResult) Spec {
	bars := make([]Bar, 0, len(sentences))
	for i, s := range sentences {
		label := fmt.Sprintf("S%d", i+1)
		bars = append(bars, Bar{
			Label: label,
			Value: s.AIProbability,
			Color: classify.BarColor(s.AIProbability),
			Hover: fmt.Sprintf("%s: AI Probability %s", label, classify.Percent(s.AIProbability)),
		})
	}
	return Spec{Bars: bars, Threshold: Threshold, ThresholdLabel: ThresholdLabel}
}

func (s Spec) Empty() bool { return len(s.Bars) == 0 }

func (s Spec) Labels() []string {
	out := make([]string, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Label
	}
	return out
}
