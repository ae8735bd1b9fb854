package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisWindows is the shared Windows backend. The key TTL stands in
// for the in-process sweep: every append resets it, so a window
// expires exactly when its owner has been idle past the threshold.
type RedisWindows struct {
	client *redis.Client
	prefix string
	max    int
	ttl    time.Duration
}

// NewRedisWindows creates a Redis-backed window store
func NewRedisWindows(redisURL string) (*RedisWindows, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisWindowsWithClient(client), nil
}

// NewRedisWindowsWithClient creates a store from an existing Redis client
func NewRedisWindowsWithClient(client *redis.Client) *RedisWindows {
	return &RedisWindows{
		client: client,
		prefix: "convo:",
		max:    MaxMessages,
		ttl:    InactivityTTL,
	}
}

func (r *RedisWindows) key(userID int64) string {
	return r.prefix + strconv.FormatInt(userID, 10)
}

func (r *RedisWindows) Append(ctx context.Context, userID int64, turn Turn) ([]Turn, error) {
	key := r.key(userID)

	var turns []Turn
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load window: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &turns); err != nil {
			// A corrupt window is dropped rather than poisoning the chat.
			turns = nil
		}
	}

	turns = appendBounded(turns, turn, r.max)

	encoded, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("marshal window: %w", err)
	}
	if err := r.client.Set(ctx, key, encoded, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("save window: %w", err)
	}
	return turns, nil
}

// Close closes the Redis connection
func (r *RedisWindows) Close() error {
	return r.client.Close()
}

// Ping checks if Redis is reachable
func (r *RedisWindows) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
