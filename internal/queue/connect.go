// internal/queue/connect.go
package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

const (
	connectRetryBase = 500 * time.Millisecond
	connectRetryMax  = 5
)

// Connect creates a Redis client and pings it, retrying with exponential
// backoff while Redis is not reachable yet.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	backoff := retry.NewExponential(connectRetryBase)
	err := retry.Do(ctx, retry.WithMaxRetries(connectRetryMax, backoff), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}
