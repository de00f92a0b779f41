package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"planie.app/api/common/id"
)

const idempotencyPending = "pending"

// MaxPendingTTL bounds how long an unsettled reservation blocks retries.
const MaxPendingTTL = 5 * time.Minute

// RedisKV is the subset of *redis.Client the idempotency store needs.
type RedisKV interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisIdempotencyStore struct {
	client RedisKV
	ttl    time.Duration
}

// NewRedisIdempotencyStore stores reservations as plain keys. Completed keys
// expire after ttl, pending ones after at most MaxPendingTTL.
func NewRedisIdempotencyStore(client RedisKV, ttl time.Duration) IdempotencyStore {
	return &redisIdempotencyStore{client: client, ttl: ttl}
}

func (s *redisIdempotencyStore) pendingTTL() time.Duration {
	return min(s.ttl, MaxPendingTTL)
}

func (s *redisIdempotencyStore) Reserve(ctx context.Context, userID, key string) (int64, bool, error) {
	k := idempotencyKey(userID, key)

	ok, err := s.client.SetNX(ctx, k, idempotencyPending, s.pendingTTL()).Result()
	if err != nil {
		return 0, false, fmt.Errorf("reserving idempotency key: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired or released between SETNX and GET; the caller retries.
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("reading idempotency key: %w", err)
	}
	if val == idempotencyPending {
		return 0, false, nil
	}

	workspaceID, err := id.Parse(val)
	if err != nil {
		return 0, false, fmt.Errorf("parsing idempotency value %q: %w", val, err)
	}
	return workspaceID, false, nil
}

func (s *redisIdempotencyStore) Complete(ctx context.Context, userID, key string, workspaceID int64) error {
	k := idempotencyKey(userID, key)
	if err := s.client.Set(ctx, k, id.Format(workspaceID), s.ttl).Err(); err != nil {
		return fmt.Errorf("completing idempotency key: %w", err)
	}
	return nil
}

func (s *redisIdempotencyStore) Release(ctx context.Context, userID, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(userID, key)).Err(); err != nil {
		return fmt.Errorf("releasing idempotency key: %w", err)
	}
	return nil
}

func idempotencyKey(userID, key string) string {
	return "idempotency:workspace:" + userID + ":" + key
}
