package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResult marks a detection response that does not fit the data model.
var ErrInvalidResult = errors.New("invalid analysis result")

type SentenceResult struct {
	Sentence      string  `json:"sentence"`
	AIProbability float64 `json:"ai_probability"`
	IsAI          bool    `json:"is_ai"`
}

type AnalysisResult struct {
	AIProbability        float64          `json:"ai_probability"`
	IsAI                 bool             `json:"is_ai"`
	SentenceLevelResults []SentenceResult `json:"sentence_level_results"`
}

// Validate checks that every probability lies in [0,1] and that no
// sentence is blank.
func (r AnalysisResult) Validate() error {
	if r.AIProbability < 0 || r.AIProbability > 1 {
		return fmt.Errorf("%w: overall probability %v out of range", ErrInvalidResult, r.AIProbability)
	}
	for i, s := range r.SentenceLevelResults {
		if strings.TrimSpace(s.Sentence) == "" {
			return fmt.Errorf("%w: sentence %d is empty", ErrInvalidResult, i+1)
		}
		if s.AIProbability < 0 || s.AIProbability > 1 {
			return fmt.Errorf("%w: sentence %d probability %v out of range", ErrInvalidResult, i+1, s.AIProbability)
		}
	}
	return nil
}

// Snapshot returns the prediction_result shape sent with feedback.
// The sentence list is never nil so it encodes as [] rather than null.
func (r AnalysisResult) Snapshot() AnalysisResult {
	sentences := make([]SentenceResult, len(r.SentenceLevelResults))
	copy(sentences, r.SentenceLevelResults)
	return AnalysisResult{
		AIProbability:        r.AIProbability,
		IsAI:                 r.IsAI,
		SentenceLevelResults: sentences,
	}
}

type DetectRequest struct {
	Text             string `json:"text"`
	DetailedResponse bool   `json:"detailed_response"`
}

type FeedbackSubmission struct {
	Text             string         `json:"text"`
	PredictionResult AnalysisResult `json:"prediction_result"`
	FeedbackType     FeedbackType   `json:"feedback_type"`
	FailedSentences  []string       `json:"failed_sentences"`
	UserComment      *string        `json:"user_comment"`
	UserID           string         `json:"user_id"`
}

type FeedbackResponse struct {
	Message string `json:"message"`
}
