package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"text-detector-go/internal/logger"
)

var (
	// ErrTimeout means the call ran past its budget and was abandoned.
	ErrTimeout = errors.New("request timed out")
	// ErrUnavailable means the remote service could not be reached.
	ErrUnavailable = errors.New("cannot connect to remote service")
)

// StatusError is a non-200 reply; Body is the raw response text.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// maxBody caps how much of a response is read into memory.
const maxBody = 4 << 20

type base struct {
	httpClient *http.Client
	log        *logger.Logger
}

func newBase(log *logger.Logger) base {
	if log == nil {
		log = logger.New()
	}
	return base{httpClient: &http.Client{}, log: log}
}

// doJSON sends one request bounded by timeout. There is no retry: a
// failed call is reported to the user and the session stays as it was.
func (b base) doJSON(ctx context.Context, method, endpoint string, timeout time.Duration, payload, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return classify(ctx, err)
	}
	b.log.WithField("endpoint", endpoint).
		WithField("status", resp.StatusCode).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("remote call finished")

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if target == nil {
		return nil
	}
	if len(raw) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("json decode error: %v body=%s", err, string(raw))
	}
	return nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
