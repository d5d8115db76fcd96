package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps conversation state in Redis so it survives
// process restarts.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

var _ StateStore = (*RedisStateStore)(nil)

func (s *RedisStateStore) SetState(ctx context.Context, chatID int64, state string) error {
	if err := s.client.Set(ctx, stateKey(chatID), state, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) SetData(ctx context.Context, chatID int64, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode state data: %w", err)
	}
	if err := s.client.Set(ctx, dataKey(chatID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state data: %w", err)
	}
	return nil
}

func (s *RedisStateStore) State(ctx context.Context, chatID int64) (string, error) {
	state, err := s.client.Get(ctx, stateKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return StateIdle, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read state: %w", err)
	}
	return state, nil
}

func (s *RedisStateStore) Data(ctx context.Context, chatID int64, dest any) error {
	payload, err := s.client.Get(ctx, dataKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state data: %w", err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode state data: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Reset(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, stateKey(chatID), dataKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}
	return nil
}
