package cache

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySessionStore is a process-local SessionStore. It backs tests and
// REDIS-less local development; state does not survive a restart.
func NewMemorySessionStore() SessionStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Load(ctx context.Context, namespace, sessionID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[sessionKey(namespace, sessionID)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (s *memoryStore) Save(ctx context.Context, namespace, sessionID string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.data[sessionKey(namespace, sessionID)] = stored
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, namespace, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionKey(namespace, sessionID))
	return nil
}
