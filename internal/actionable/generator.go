package actionable

import (
	"text-detector-go/internal/aggregator"
	"text-detector-go/internal/classify"
)

// Advisory is the probability comparison panel.
type Advisory struct {
	Level             string `json:"level"`
	Title             string `json:"title"`
	Color             string `json:"color"`
	APIProb           string `json:"api_probability"`
	SentenceBasedProb string `json:"sentence_based_probability"`
	Difference        string `json:"difference"`
	Message           string `json:"message"`
}

// Generate returns the panel for m, or false when no panel is shown.
func Generate(m aggregator.Metrics) (Advisory, bool) {
	a := Advisory{
		Level:             m.Divergence.String(),
		Title:             "Probability Comparison",
		APIProb:           classify.Percent(m.OverallProb),
		SentenceBasedProb: classify.Percent(m.SentenceBasedProb),
		Difference:        classify.Percent(m.Difference),
	}
	switch m.Divergence {
	case aggregator.DivergenceSignificant:
		a.Color = "#f39c12"
		a.Message = "Significant difference detected - consider reviewing individual sentence classifications."
	case aggregator.DivergenceModerate:
		a.Color = "#3498db"
		a.Message = "Moderate difference between calculation methods."
	default:
		return Advisory{}, false
	}
	return a, true
}
