package store

import (
	"sync"

	"valet-service/internal/model"
)

// PricingStore keeps the per-gate rates for the session. The default entry is
// seeded at construction and can be overwritten but never removed, so lookups
// always resolve.
type PricingStore struct {
	mu      sync.RWMutex
	entries map[string]model.Pricing
}

func NewPricingStore(defaults model.Pricing) *PricingStore {
	return &PricingStore{
		entries: map[string]model.Pricing{model.DefaultPricingKey: defaults},
	}
}

// Resolve returns the pricing for a gate, falling back to the default entry.
// Gate names are opaque keys; no normalization is applied.
func (s *PricingStore) Resolve(gate string) model.Pricing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.entries[gate]; ok {
		return p
	}
	return s.entries[model.DefaultPricingKey]
}

func (s *PricingStore) Set(gate string, p model.Pricing) {
	s.mu.Lock()
	s.entries[gate] = p
	s.mu.Unlock()
}

// All returns a copy of the full pricing table.
func (s *PricingStore) All() map[string]model.Pricing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Pricing, len(s.entries))
	for gate, p := range s.entries {
		out[gate] = p
	}
	return out
}
