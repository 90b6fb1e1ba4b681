package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"text-detector-go/internal/types"
)

// RedisStore keeps each session as one JSON value with a sliding TTL, so
// a populate is a single SET and can never be observed half written.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("detector:session:%s", id)
}

func (s *RedisStore) Load(ctx context.Context, id string) (State, error) {
	// GETEX slides the TTL on reads as well as writes
	data, err := s.client.GetEx(ctx, s.key(id), s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	var st State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	return st, nil
}

func (s *RedisStore) Populate(ctx context.Context, id, text string, result types.AnalysisResult) error {
	return s.save(ctx, id, populated(text, result, time.Now()))
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) MarkFeedbackSubmitted(ctx context.Context, id string) error {
	return s.setFeedback(ctx, id, true)
}

func (s *RedisStore) ResetFeedback(ctx context.Context, id string) error {
	return s.setFeedback(ctx, id, false)
}

func (s *RedisStore) setFeedback(ctx context.Context, id string, submitted bool) error {
	st, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	if !st.HasResult() {
		return nil
	}
	st.FeedbackSubmitted = submitted
	st.UpdatedAt = time.Now()
	return s.save(ctx, id, st)
}

func (s *RedisStore) save(ctx context.Context, id string, st State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
