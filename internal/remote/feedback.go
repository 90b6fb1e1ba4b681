package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"text-detector-go/internal/logger"
	"text-detector-go/internal/types"
)

const defaultFeedbackMessage = "Feedback submitted successfully!"

// FeedbackClient posts feedback and reads the feedback statistics.
type FeedbackClient struct {
	base
	url           string
	submitTimeout time.Duration
	statsTimeout  time.Duration
}

func NewFeedbackClient(url string, submitTimeout, statsTimeout time.Duration, log *logger.Logger) *FeedbackClient {
	return &FeedbackClient{
		base:          newBase(log),
		url:           strings.TrimRight(url, "/"),
		submitTimeout: submitTimeout,
		statsTimeout:  statsTimeout,
	}
}

// Submit sends one feedback request and returns the server's message.
func (c *FeedbackClient) Submit(ctx context.Context, sub types.FeedbackSubmission) (string, error) {
	log := c.log.Module("feedback").
		WithField("feedback_type", sub.FeedbackType).
		WithField("failed_sentences", len(sub.FailedSentences))

	var out types.FeedbackResponse
	if err := c.doJSON(ctx, http.MethodPost, c.url, c.submitTimeout, sub, &out); err != nil {
		log.WithField("error", err.Error()).Warn("feedback submission failed")
		return "", err
	}
	log.Info("feedback submitted")
	if out.Message == "" {
		return defaultFeedbackMessage, nil
	}
	return out.Message, nil
}

// Stats returns GET {url}/stats as opaque JSON, indented for display.
func (c *FeedbackClient) Stats(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, c.url+"/stats", c.statsTimeout, nil, &raw); err != nil {
		c.log.Module("feedback").WithField("error", err.Error()).Warn("feedback stats failed")
		return nil, err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return raw, nil
	}
	return pretty.Bytes(), nil
}
