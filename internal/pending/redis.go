package pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/plata/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps pending actions in Redis with a TTL, so confirmations
// survive restarts and work across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, userID, correlationID string, action model.FinancialAction) error {
	data, err := model.EncodeFinancialAction(action)
	if err != nil {
		return fmt.Errorf("failed to encode pending action: %w", err)
	}

	if err := s.client.Set(ctx, storageKey(userID, correlationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save pending action: %w", err)
	}
	return nil
}

// Take implements Store. GETDEL reads and removes the key atomically, so
// only one of several concurrent takers sees the action.
func (s *RedisStore) Take(ctx context.Context, userID, correlationID string) (model.FinancialAction, error) {
	data, err := s.client.GetDel(ctx, storageKey(userID, correlationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, correlationID)
		}
		return nil, fmt.Errorf("failed to take pending action: %w", err)
	}

	action, err := model.DecodeFinancialAction(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pending action: %w", err)
	}
	return action, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
