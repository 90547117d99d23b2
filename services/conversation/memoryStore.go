package conversation

import (
	"context"
	"sync"

	"flightbot/models"
)

// MemoryContextStore keeps contexts in process memory. It is used when Redis
// is not configured and in tests.
type MemoryContextStore struct {
	mu       sync.RWMutex
	contexts map[string]models.SessionContext
}

func NewMemoryContextStore() *MemoryContextStore {
	return &MemoryContextStore{contexts: make(map[string]models.SessionContext)}
}

func (s *MemoryContextStore) Get(_ context.Context, sessionID string) (*models.SessionContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.contexts[sessionID]
	if !ok {
		return &models.SessionContext{}, nil
	}
	sc.Parameters = copyParams(sc.Parameters)
	return &sc, nil
}

func (s *MemoryContextStore) Set(_ context.Context, sessionID string, sc *models.SessionContext) error {
	stored := *sc
	stored.Parameters = copyParams(sc.Parameters)
	s.mu.Lock()
	s.contexts[sessionID] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.contexts, sessionID)
	s.mu.Unlock()
	return nil
}

func copyParams(p map[string]string) map[string]string {
	if p == nil {
		return nil
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
