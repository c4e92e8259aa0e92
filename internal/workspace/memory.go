package workspace

import (
	"context"
	"sync"
	"time"

	"posrecon-backend/internal/domain"
)

type memoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	times map[string]time.Time
}

// NewMemoryStore keeps snapshots in process. Callers always get a copy.
func NewMemoryStore() Store {
	return &memoryStore{
		items: make(map[string][]byte),
		times: make(map[string]time.Time),
	}
}

func (s *memoryStore) Load(_ context.Context, posID string) (*domain.Workspace, error) {
	s.mu.RLock()
	data, ok := s.items[posID]
	s.mu.RUnlock()
	if !ok {
		return domain.NewWorkspace(posID), nil
	}
	return decode(posID, data)
}

func (s *memoryStore) Save(_ context.Context, ws *domain.Workspace) error {
	if ws.UpdatedAt.IsZero() {
		ws.UpdatedAt = time.Now().UTC()
	}
	data, err := encode(ws)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[ws.PosID] = data
	s.times[ws.PosID] = ws.UpdatedAt
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, posID string) error {
	s.mu.Lock()
	delete(s.items, posID)
	delete(s.times, posID)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) PruneOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for posID, at := range s.times {
		if at.Before(cutoff) {
			delete(s.items, posID)
			delete(s.times, posID)
			n++
		}
	}
	return n, nil
}
