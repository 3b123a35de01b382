package intelligence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"cargoassist/models"
)

const (
	historyPrefix = "conv:hist:"
	// maxHistoryTurns bounds the context window sent to the extractor.
	maxHistoryTurns = 10
)

// RedisHistoryStore keeps per-session conversation history with a TTL, so
// abandoned sessions expire on their own.
type RedisHistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisHistoryStore(client *redis.Client, ttl time.Duration) *RedisHistoryStore {
	return &RedisHistoryStore{client: client, ttl: ttl}
}

func (s *RedisHistoryStore) Get(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	data, err := s.client.Get(ctx, historyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var turns []models.ConversationTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func (s *RedisHistoryStore) Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error {
	existing, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	existing = append(existing, turns...)
	if len(existing) > maxHistoryTurns {
		existing = existing[len(existing)-maxHistoryTurns:]
	}
	b, err := json.Marshal(existing)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, historyPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisHistoryStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, historyPrefix+sessionID).Err()
}
