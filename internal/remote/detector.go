package remote

import (
	"context"
	"net/http"
	"time"

	"text-detector-go/internal/logger"
	"text-detector-go/internal/types"
)

// DetectorClient calls the detection API.
type DetectorClient struct {
	base
	url     string
	timeout time.Duration
}

func NewDetectorClient(url string, timeout time.Duration, log *logger.Logger) *DetectorClient {
	return &DetectorClient{base: newBase(log), url: url, timeout: timeout}
}

// Detect posts text with detailed_response set and returns the validated
// result. Nothing is returned on failure, so callers cannot store a
// partial result.
func (c *DetectorClient) Detect(ctx context.Context, text string) (types.AnalysisResult, error) {
	log := c.log.Module("detector").WithField("text_len", len(text))

	var out types.AnalysisResult
	err := c.doJSON(ctx, http.MethodPost, c.url, c.timeout, types.DetectRequest{Text: text, DetailedResponse: true}, &out)
	if err != nil {
		log.WithField("error", err.Error()).Warn("detection call failed")
		return types.AnalysisResult{}, err
	}
	if err := out.Validate(); err != nil {
		log.WithField("error", err.Error()).Warn("detection response rejected")
		return types.AnalysisResult{}, err
	}
	log.WithField("sentences", len(out.SentenceLevelResults)).
		WithField("ai_probability", out.AIProbability).
		Info("detection complete")
	return out, nil
}
