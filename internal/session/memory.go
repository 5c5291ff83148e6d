package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Put(_ context.Context, token, role string) error {
	s.mu.Lock()
	s.tokens[token] = role
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	role, ok := s.tokens[token]
	s.mu.RUnlock()
	return role, ok, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
