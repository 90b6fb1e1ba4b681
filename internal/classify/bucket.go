package classify

import (
	"fmt"
	"math"
)

type Bucket int

const (
	LikelyHuman Bucket = iota
	Uncertain
	ModerateAI
	HighAI
)

type style struct {
	name       string
	background string
	foreground string
	bar        string
}

// lower bounds are inclusive: 0.5 is ModerateAI, 0.7 is HighAI
var styles = map[Bucket]style{
	HighAI:      {name: "high-ai", background: "#ffebee", foreground: "#c62828", bar: "#e74c3c"},
	ModerateAI:  {name: "moderate-ai", background: "#fff3e0", foreground: "#ef6c00", bar: "#f39c12"},
	Uncertain:   {name: "uncertain", background: "#fffde7", foreground: "#f57f17", bar: "#f1c40f"},
	LikelyHuman: {name: "likely-human", background: "#e8f5e8", foreground: "#2e7d32", bar: "#27ae60"},
}

// ForProbability maps p to its bucket.
func ForProbability(p float64) Bucket {
	switch {
	case p >= 0.7:
		return HighAI
	case p >= 0.5:
		return ModerateAI
	case p >= 0.3:
		return Uncertain
	default:
		return LikelyHuman
	}
}

func (b Bucket) String() string     { return styles[b].name }
func (b Bucket) Background() string { return styles[b].background }
func (b Bucket) Foreground() string { return styles[b].foreground }

// BarColor returns the chart bar colour for a probability.
func BarColor(p float64) string {
	return styles[ForProbability(p)].bar
}

// Percent formats p with one decimal place, e.g. 0.732 -> "73.2%".
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// Confidence grades how far p sits from the 0.5 decision threshold.
func Confidence(p float64) string {
	d := math.Abs(p - 0.5)
	switch {
	case d > 0.3:
		return "High"
	case d > 0.1:
		return "Medium"
	default:
		return "Low"
	}
}
