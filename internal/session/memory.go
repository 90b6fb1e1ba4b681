package session

import (
	"context"
	"sync"
	"time"

	"text-detector-go/internal/types"
)

// MemoryStore keeps sessions in process memory. Entries not read or
// written for longer than ttl are dropped lazily.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry
	now      func() time.Time
}

type entry struct {
	state    State
	lastSeen time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: map[string]entry{},
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return State{}, nil
	}
	if m.expired(e) {
		delete(m.sessions, id)
		return State{}, nil
	}
	e.lastSeen = m.now()
	m.sessions[id] = e
	return copyState(e.state), nil
}

func (m *MemoryStore) Populate(_ context.Context, id, text string, result types.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	now := m.now()
	m.sessions[id] = entry{state: populated(text, result, now), lastSeen: now}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) MarkFeedbackSubmitted(_ context.Context, id string) error {
	return m.setFeedback(id, true)
}

func (m *MemoryStore) ResetFeedback(_ context.Context, id string) error {
	return m.setFeedback(id, false)
}

func (m *MemoryStore) setFeedback(id string, submitted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || m.expired(e) {
		return nil
	}
	now := m.now()
	e.state.FeedbackSubmitted = submitted
	e.state.UpdatedAt = now
	e.lastSeen = now
	m.sessions[id] = e
	return nil
}

func (m *MemoryStore) expired(e entry) bool {
	return m.ttl > 0 && m.now().Sub(e.lastSeen) > m.ttl
}

func (m *MemoryStore) sweep() {
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
		}
	}
}

// copyState keeps callers from mutating stored sentence slices.
func copyState(st State) State {
	if st.Result != nil {
		r := *st.Result
		r.SentenceLevelResults = append([]types.SentenceResult(nil), st.Result.SentenceLevelResults...)
		st.Result = &r
	}
	return st
}
