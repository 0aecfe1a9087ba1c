package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"filesapi/internal/config"
)

// RedisQueue implements Dispatcher on Redis lists: one list per queue name,
// LPUSH to produce, BRPOP to consume. It is safe for concurrent use.
type RedisQueue struct {
	client *redis.Client
}

var _ Dispatcher = (*RedisQueue)(nil)

// NewRedis creates a Redis-backed queue and validates connectivity.
func NewRedis(cfg config.RedisConfig) (*RedisQueue, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisQueue{client: cli}, nil
}

// NewRedisWithClient wraps an existing client so the API process can share one
// connection pool between sessions and job dispatch.
func NewRedisWithClient(cli *redis.Client) *RedisQueue {
	return &RedisQueue{client: cli}
}

// Enqueue marshals payload to JSON and pushes it onto the named list.
func (q *RedisQueue) Enqueue(ctx context.Context, queue string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}
	if err := q.client.LPush(ctx, queue, b).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job on the named list and returns
// its raw payload. An empty queue after the timeout yields (nil, nil).
func (q *RedisQueue) Dequeue(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BRPop(ctx, timeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected brpop reply of length %d", len(res))
	}
	return []byte(res[1]), nil
}
