package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"text-detector-go/internal/processor"
	"text-detector-go/internal/remote"
)

const (
	msgEmptyText      = "Please enter some text to analyze."
	msgBusy           = "A request is already running for this session. Please wait for it to finish."
	msgTimeout        = "Request timed out. Please try again."
	msgUnavailable    = "Cannot connect to the API. Make sure the detection service is running."
	msgNoFeedbackType = "Please select a feedback type before submitting."
	msgNoResult       = "Analyze some text before submitting feedback."
	msgRecorded       = "Feedback was already submitted for this result."
	msgStatsFailed    = "Failed to load statistics"
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// analyzeMessage maps an Analyze error to the text shown to the user and
// reports whether it is a warning rather than an error.
func analyzeMessage(err error) (string, bool) {
	var se *remote.StatusError
	switch {
	case errors.Is(err, processor.ErrEmptyText):
		return msgEmptyText, true
	case errors.Is(err, processor.ErrBusy):
		return msgBusy, true
	case errors.Is(err, remote.ErrTimeout):
		return msgTimeout, false
	case errors.Is(err, remote.ErrUnavailable):
		return msgUnavailable, false
	case errors.As(err, &se):
		return fmt.Sprintf("API Error: %d - %s", se.Code, se.Body), false
	}
	return fmt.Sprintf("Error analyzing text: %v", err), false
}

func feedbackMessage(err error) (string, bool) {
	var se *remote.StatusError
	switch {
	case errors.Is(err, processor.ErrNoFeedbackType):
		return msgNoFeedbackType, true
	case errors.Is(err, processor.ErrNoResult):
		return msgNoResult, true
	case errors.Is(err, processor.ErrFeedbackRecorded):
		return msgRecorded, true
	case errors.Is(err, processor.ErrBusy):
		return msgBusy, true
	case errors.Is(err, processor.ErrCommentTooLong):
		return fmt.Sprintf("Comment must be at most %d characters.", processor.MaxCommentLength), true
	case errors.As(err, &se):
		return fmt.Sprintf("Failed to submit feedback: %s", se.Body), false
	case errors.Is(err, remote.ErrTimeout), errors.Is(err, remote.ErrUnavailable):
		return fmt.Sprintf("Connection error: %v", err), false
	}
	return fmt.Sprintf("Error submitting feedback: %v", err), false
}

func statsMessage(err error) string {
	var se *remote.StatusError
	if errors.As(err, &se) {
		return msgStatsFailed
	}
	return fmt.Sprintf("Error: %v", err)
}
