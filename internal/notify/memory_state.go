package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStateStore keeps conversation state in process memory. States
// expire after the configured TTL so stale prompts do not trap recipients
// forever.
type MemoryStateStore struct {
	cache *cache.Cache
}

func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{cache: cache.New(ttl, 2*ttl)}
}

var _ StateStore = (*MemoryStateStore)(nil)

func stateKey(chatID int64) string { return "state:" + strconv.FormatInt(chatID, 10) }
func dataKey(chatID int64) string  { return "data:" + strconv.FormatInt(chatID, 10) }

func (s *MemoryStateStore) SetState(_ context.Context, chatID int64, state string) error {
	s.cache.Set(stateKey(chatID), state, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStateStore) SetData(_ context.Context, chatID int64, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode state data: %w", err)
	}
	s.cache.Set(dataKey(chatID), payload, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStateStore) State(_ context.Context, chatID int64) (string, error) {
	v, found := s.cache.Get(stateKey(chatID))
	if !found {
		return StateIdle, nil
	}
	return v.(string), nil
}

func (s *MemoryStateStore) Data(_ context.Context, chatID int64, dest any) error {
	v, found := s.cache.Get(dataKey(chatID))
	if !found {
		return nil
	}
	if err := json.Unmarshal(v.([]byte), dest); err != nil {
		return fmt.Errorf("failed to decode state data: %w", err)
	}
	return nil
}

func (s *MemoryStateStore) Reset(_ context.Context, chatID int64) error {
	s.cache.Delete(stateKey(chatID))
	s.cache.Delete(dataKey(chatID))
	return nil
}
