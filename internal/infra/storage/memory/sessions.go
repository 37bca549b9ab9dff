package memory

import (
	"context"
	"sync"

	"stayfinder/internal/app/policies"
)

// SessionStore resolves bearer tokens issued elsewhere to principals. Dev
// deployments preload it from configuration.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]policies.Principal
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]policies.Principal)}
}

func (s *SessionStore) Put(token string, p policies.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[token] = p
}

func (s *SessionStore) ResolveToken(ctx context.Context, token string) (policies.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[token]
	if !ok {
		return policies.Principal{}, policies.ErrSessionNotFound
	}
	return p, nil
}

var _ policies.TokenResolver = (*SessionStore)(nil)
