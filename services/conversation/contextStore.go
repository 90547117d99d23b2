// File: services/conversation/contextStore.go
package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flightbot/models"

	"github.com/go-redis/redis/v8"
)

const contextPrefix = "flightbot:ctx:"

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*models.SessionContext, error) {
	key := contextPrefix + sessionID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return &models.SessionContext{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get context %s: %w", sessionID, err)
	}
	var sc models.SessionContext
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, fmt.Errorf("decode context %s: %w", sessionID, err)
	}
	return &sc, nil
}

func (s *RedisContextStore) Set(ctx context.Context, sessionID string, sc *models.SessionContext) error {
	key := contextPrefix + sessionID
	b, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	key := contextPrefix + sessionID
	return s.client.Del(ctx, key).Err()
}
