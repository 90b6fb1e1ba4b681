package session

import (
	"context"
	"time"

	"text-detector-go/internal/types"
)

// State is everything remembered for one browser session. Result and
// Text are set together or not at all.
type State struct {
	Result            *types.AnalysisResult `json:"result,omitempty"`
	Text              string                `json:"text,omitempty"`
	FeedbackSubmitted bool                  `json:"feedback_submitted"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func (s State) HasResult() bool { return s.Result != nil }

// Store holds at most one State per session ID. Clear and ResetFeedback
// are separate: Clear drops everything, ResetFeedback only
// re-opens the feedback form.
type Store interface {
	Load(ctx context.Context, id string) (State, error)
	Populate(ctx context.Context, id, text string, result types.AnalysisResult) error
	Clear(ctx context.Context, id string) error
	MarkFeedbackSubmitted(ctx context.Context, id string) error
	ResetFeedback(ctx context.Context, id string) error
}

// populated builds the State written after a successful analysis; a new
// result always starts with the feedback form open.
func populated(text string, result types.AnalysisResult, now time.Time) State {
	r := result
	r.SentenceLevelResults = append([]types.SentenceResult(nil), result.SentenceLevelResults...)
	return State{Result: &r, Text: text, UpdatedAt: now}
}
