package memory

import (
	"context"
	"sync"

	"stayfinder/internal/app/policies"
)

// PaymentsStore is a PaymentsPort backed by registered payments. Used in dev
// mode and in tests.
type PaymentsStore struct {
	mu    sync.RWMutex
	items map[string]policies.Payment
}

func NewPaymentsStore() *PaymentsStore {
	return &PaymentsStore{items: make(map[string]policies.Payment)}
}

// Register makes a payment resolvable by its reference.
func (s *PaymentsStore) Register(p policies.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.Ref] = p
}

func (s *PaymentsStore) Retrieve(ctx context.Context, ref string) (policies.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[ref]
	if !ok {
		return policies.Payment{}, policies.ErrPaymentNotFound
	}
	return p, nil
}

var _ policies.PaymentsPort = (*PaymentsStore)(nil)
