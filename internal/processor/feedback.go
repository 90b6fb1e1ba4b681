package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"text-detector-go/internal/types"
)

const MaxCommentLength = 1000

var (
	ErrNoFeedbackType   = errors.New("no feedback type selected")
	ErrNoResult         = errors.New("no analysis result to give feedback on")
	ErrCommentTooLong   = fmt.Errorf("comment exceeds %d characters", MaxCommentLength)
	ErrFeedbackRecorded = errors.New("feedback already submitted for this result")
)

// FeedbackForm is the submitted form state. FailedSentences holds
// 0-based indexes into the stored sentence list.
type FeedbackForm struct {
	Type            string
	Comment         string
	FailedSentences []int
}

// BuildSubmission packages the stored analysis and the form. It does no I/O.
func BuildSubmission(text string, result types.AnalysisResult, form FeedbackForm, userID string) (types.FeedbackSubmission, error) {
	ft, ok := types.ParseFeedbackType(form.Type)
	if !ok {
		return types.FeedbackSubmission{}, ErrNoFeedbackType
	}
	if utf8.RuneCountInString(form.Comment) > MaxCommentLength {
		return types.FeedbackSubmission{}, ErrCommentTooLong
	}

	sub := types.FeedbackSubmission{
		Text:             text,
		PredictionResult: result.Snapshot(),
		FeedbackType:     ft,
		UserID:           userID,
	}
	if c := strings.TrimSpace(form.Comment); c != "" {
		comment := form.Comment
		sub.UserComment = &comment
	}
	if ft == types.FeedbackIncorrectSentence {
		seen := map[int]bool{}
		for _, i := range form.FailedSentences {
			if i < 0 || i >= len(result.SentenceLevelResults) || seen[i] {
				continue
			}
			seen[i] = true
			sub.FailedSentences = append(sub.FailedSentences, strings.TrimSpace(result.SentenceLevelResults[i].Sentence))
		}
	}
	return sub, nil
}

// SubmitFeedback sends feedback for the stored result and, on success,
// closes the feedback form for the session. Validation failures return
// before any request is made.
func (p *Processor) SubmitFeedback(ctx context.Context, sessionID string, form FeedbackForm) (string, error) {
	log := p.log.Module("processor").WithField("session", sessionID)
	if _, ok := types.ParseFeedbackType(form.Type); !ok {
		return "", ErrNoFeedbackType
	}
	// held across load, send and mark so the flag lands on the result
	// that was sent
	if err := p.acquire(sessionID); err != nil {
		log.Warn("feedback rejected, request in flight")
		return "", err
	}
	defer p.release(sessionID)

	st, err := p.store.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !st.HasResult() {
		return "", ErrNoResult
	}
	if st.FeedbackSubmitted {
		return "", ErrFeedbackRecorded
	}
	sub, err := BuildSubmission(st.Text, *st.Result, form, p.userID)
	if err != nil {
		return "", err
	}

	msg, err := p.feedback.Submit(ctx, sub)
	if err != nil {
		return "", fmt.Errorf("submit feedback: %w", err)
	}
	if err := p.store.MarkFeedbackSubmitted(ctx, sessionID); err != nil {
		return "", fmt.Errorf("mark feedback: %w", err)
	}
	log.WithField("feedback_type", sub.FeedbackType).Info("feedback recorded")
	return msg, nil
}

// ResetFeedback re-opens the form without touching the stored result.
func (p *Processor) ResetFeedback(ctx context.Context, sessionID string) error {
	if err := p.store.ResetFeedback(ctx, sessionID); err != nil {
		return fmt.Errorf("reset feedback: %w", err)
	}
	return nil
}

// FeedbackStats returns the remote statistics verbatim.
func (p *Processor) FeedbackStats(ctx context.Context) (json.RawMessage, error) {
	stats, err := p.feedback.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("feedback stats: %w", err)
	}
	return stats, nil
}
