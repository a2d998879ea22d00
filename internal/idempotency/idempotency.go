// Package idempotency records the outcome of create requests under a
// client-supplied key so that a retried request replays the original result
// instead of creating a second task.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingValue marks a key whose first request has not finished yet.
const pendingValue = "pending"

// ErrInFlight is returned by Reserve when another request holding the same
// key is still being processed.
var ErrInFlight = errors.New("request with this idempotency key is in progress")

// Record is the stored outcome of a completed request.
type Record struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store reserves, completes and releases idempotency keys.
type Store interface {
	// Reserve claims key for a new request. If the key already holds a
	// completed record it is returned instead and nothing is claimed.
	// Returns ErrInFlight if the key is claimed but not yet completed.
	Reserve(ctx context.Context, key string) (*Record, error)

	// Complete stores the outcome for a key claimed by Reserve.
	Complete(ctx context.Context, key string, rec Record) error

	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// RedisStore keeps idempotency keys in Redis so every server instance sees
// the same reservations.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a store using the provided Redis client and TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "idempotency:task:"}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Reserve implements Store.Reserve using SETNX.
func (s *RedisStore) Reserve(ctx context.Context, key string) (*Record, error) {
	added, err := s.client.SetNX(ctx, s.key(key), pendingValue, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if added {
		return nil, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Expired or released between SETNX and GET; try once more.
		added, err = s.client.SetNX(ctx, s.key(key), pendingValue, s.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if added {
			return nil, nil
		}
		return nil, ErrInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == pendingValue {
		return nil, ErrInFlight
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &rec, nil
}

// Complete implements Store.Complete.
func (s *RedisStore) Complete(ctx context.Context, key string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store idempotency record: %w", err)
	}
	return nil
}

// Release implements Store.Release.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
