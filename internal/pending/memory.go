package pending

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Veraticus/plata/internal/model"
	"github.com/dgraph-io/ristretto/v2"
)

// MemoryStore keeps pending actions in an in-process ristretto cache. It is
// meant for single-instance deployments and the CLI.
//
// The cache is bounded: once maxEntries actions are waiting, ristretto may
// evict an older entry to admit a new one, or refuse the new one. A refused
// Save returns ErrStoreFull. An evicted action is reported as ErrNotFound
// when the user confirms it, the same as an expired one. Use the Redis
// backend when confirmations must not be dropped under load.
type MemoryStore struct {
	// mu makes Take's read and delete one step.
	mu    sync.Mutex
	cache *ristretto.Cache[string, []byte]
	ttl   time.Duration
}

// NewMemoryStore creates a cache sized for maxEntries pending actions.
func NewMemoryStore(maxEntries int64, ttl time.Duration) (*MemoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxEntries * 10, // keys to track frequency of
		MaxCost:     maxEntries,
		BufferItems: 64, // keys per Get buffer
		// Every entry costs 1, so MaxCost counts entries.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pending cache: %w", err)
	}

	return &MemoryStore{cache: cache, ttl: ttl}, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, userID, correlationID string, action model.FinancialAction) error {
	data, err := model.EncodeFinancialAction(action)
	if err != nil {
		return fmt.Errorf("failed to encode pending action: %w", err)
	}

	key := storageKey(userID, correlationID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cache.SetWithTTL(key, data, 1, s.ttl) {
		return fmt.Errorf("%w: set buffer dropped %s", ErrStoreFull, correlationID)
	}
	// Sets are buffered and admission is decided when they are applied.
	s.cache.Wait()
	if _, ok := s.cache.Get(key); !ok {
		return fmt.Errorf("%w: cache refused %s", ErrStoreFull, correlationID)
	}
	return nil
}

// Take implements Store.
func (s *MemoryStore) Take(_ context.Context, userID, correlationID string) (model.FinancialAction, error) {
	key := storageKey(userID, correlationID)

	s.mu.Lock()
	data, ok := s.cache.Get(key)
	if ok {
		s.cache.Del(key)
	}
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, correlationID)
	}

	action, err := model.DecodeFinancialAction(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pending action: %w", err)
	}
	return action, nil
}

// Close stops the cache goroutines.
func (s *MemoryStore) Close() error {
	s.cache.Close()
	return nil
}
