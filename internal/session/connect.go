package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"text-detector-go/internal/logger"
)

// ConnectRedis opens a client for uri (host:port or redis:// URL) and
// waits for it to answer PING, retrying with exponential backoff for up
// to maxWait.
func ConnectRedis(ctx context.Context, uri string, maxWait time.Duration, log *logger.Logger) (*redis.Client, error) {
	opts := &redis.Options{Addr: uri}
	if strings.HasPrefix(uri, "redis://") || strings.HasPrefix(uri, "rediss://") {
		parsed, err := redis.ParseURL(uri)
		if err != nil {
			return nil, fmt.Errorf("parse redis uri: %w", err)
		}
		opts = parsed
	}
	client := redis.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = maxWait
	attempt := 0
	op := func() error {
		attempt++
		err := client.Ping(ctx).Err()
		if err != nil {
			log.Module("session").WithField("attempt", attempt).WithError(err).Warn("redis ping failed")
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
