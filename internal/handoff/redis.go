package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// RedisMailbox stores slots as JSON strings with a TTL so results survive a
// server restart between submit and the results view.
type RedisMailbox struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisMailbox wraps an existing client. A zero ttl keeps slots until taken.
func NewRedisMailbox(client redis.Cmdable, ttl time.Duration) *RedisMailbox {
	return &RedisMailbox{client: client, ttl: ttl}
}

func (m *RedisMailbox) Put(ctx context.Context, key string, result domain.AssessmentResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode assessment result: %w", err)
	}
	if err := m.client.Set(ctx, key, payload, m.ttl).Err(); err != nil {
		return fmt.Errorf("store assessment result %s: %w", key, err)
	}
	return nil
}

func (m *RedisMailbox) Take(ctx context.Context, key string) (domain.AssessmentResult, error) {
	payload, err := m.client.GetDel(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AssessmentResult{}, ErrEmpty
	}
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("read assessment result %s: %w", key, err)
	}

	var result domain.AssessmentResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("decode assessment result %s: %w", key, err)
	}
	return result, nil
}

func (m *RedisMailbox) Pending(ctx context.Context, key string) (bool, error) {
	n, err := m.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check assessment result %s: %w", key, err)
	}
	return n > 0, nil
}

// NewRedisClient dials Redis and pings it before returning.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return client, nil
}
