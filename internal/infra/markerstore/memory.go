package markerstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local marker store. Markers are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	markers map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{markers: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.markers[key]
	return ok, nil
}

func (s *MemoryStore) MarkIfAbsent(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.markers[key]; ok {
		return false, nil
	}
	s.markers[key] = s.now()
	return true, nil
}
