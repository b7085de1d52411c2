package preferences

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]map[string]interface{}{}}
}

func (s *MemoryStore) Get(ctx context.Context, userID, key string) (interface{}, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.users[userID]
	if !ok {
		return nil, false, nil
	}
	v, ok := doc[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID, key string, value interface{}) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}
	v, err := normalizeValue(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.users[userID]
	if !ok {
		doc = map[string]interface{}{}
		s.users[userID] = doc
	}
	doc[key] = v
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
