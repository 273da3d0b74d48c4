package inmemstore

import (
	"context"
	"sync"

	"github.com/studentsphere/portal/core/session"
)

// Store is an in-memory session.Store for dev and tests.
type Store struct {
	mu    sync.RWMutex
	table map[string][]byte

	// Err, when set, is returned by every operation; lets tests simulate
	// unavailable storage.
	Err error
}

var _ session.Store = (*Store)(nil) // interface compliance check

func NewStore() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Put(_ context.Context, key string, data []byte) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.table[key] = cp
	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.table[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, key)
	return nil
}

// Len reports the number of persisted entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}
