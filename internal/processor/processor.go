package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"text-detector-go/internal/logger"
	"text-detector-go/internal/session"
	"text-detector-go/internal/types"
)

var (
	ErrEmptyText = errors.New("empty text")
	ErrBusy      = errors.New("another request is already in progress for this session")
)

type Detector interface {
	Detect(ctx context.Context, text string) (types.AnalysisResult, error)
}

type FeedbackSender interface {
	Submit(ctx context.Context, sub types.FeedbackSubmission) (string, error)
	Stats(ctx context.Context) (json.RawMessage, error)
}

// Processor runs the analyze and feedback flows for a session. At most
// one remote call per session is outstanding at a time.
type Processor struct {
	store    session.Store
	detector Detector
	feedback FeedbackSender
	userID   string
	log      *logger.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func New(store session.Store, detector Detector, feedback FeedbackSender, userID string, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.New()
	}
	return &Processor{
		store:    store,
		detector: detector,
		feedback: feedback,
		userID:   userID,
		log:      log,
		inflight: map[string]struct{}{},
	}
}

func (p *Processor) acquire(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[id]; busy {
		return ErrBusy
	}
	p.inflight[id] = struct{}{}
	return nil
}

func (p *Processor) release(id string) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.mu.Unlock()
}

// Analyze validates text, calls the detector and stores the result. The
// store is only written after a successful, validated response.
func (p *Processor) Analyze(ctx context.Context, sessionID, text string) (types.AnalysisResult, error) {
	log := p.log.Module("processor").WithField("session", sessionID)
	if strings.TrimSpace(text) == "" {
		return types.AnalysisResult{}, ErrEmptyText
	}
	if err := p.acquire(sessionID); err != nil {
		log.Warn("analyze rejected, request in flight")
		return types.AnalysisResult{}, err
	}
	defer p.release(sessionID)

	start := time.Now()
	res, err := p.detector.Detect(ctx, text)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("detect: %w", err)
	}
	if err := p.store.Populate(ctx, sessionID, text, res); err != nil {
		return types.AnalysisResult{}, fmt.Errorf("store result: %w", err)
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).
		WithField("sentences", len(res.SentenceLevelResults)).
		Info("analysis stored")
	return res, nil
}

// Clear drops the stored text, result and feedback flag. It is refused
// with ErrBusy while a call for the session is in flight, so a finishing
// analysis cannot repopulate a session the user just cleared.
func (p *Processor) Clear(ctx context.Context, sessionID string) error {
	if err := p.acquire(sessionID); err != nil {
		return err
	}
	defer p.release(sessionID)
	if err := p.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	p.log.Module("processor").WithField("session", sessionID).Info("session cleared")
	return nil
}

// State returns the stored state for rendering.
func (p *Processor) State(ctx context.Context, sessionID string) (session.State, error) {
	return p.store.Load(ctx, sessionID)
}
