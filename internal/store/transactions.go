// Package store holds the session's working data in memory. Nothing here
// outlives the process; a new upload replaces the whole transaction set.
package store

import (
	"errors"
	"sync"

	"valet-service/internal/model"
)

var ErrNotFound = errors.New("not found")

type TransactionStore struct {
	mu    sync.RWMutex
	items []model.Transaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// List returns a copy of the current set in insertion order.
func (s *TransactionStore) List() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

func (s *TransactionStore) Get(id string) (model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], nil
		}
	}
	return model.Transaction{}, ErrNotFound
}

func (s *TransactionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Replace swaps the whole set. Used after a batch import has fully finished.
func (s *TransactionStore) Replace(transactions []model.Transaction) {
	items := make([]model.Transaction, len(transactions))
	copy(items, transactions)
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *TransactionStore) Append(transactions ...model.Transaction) {
	s.mu.Lock()
	s.items = append(s.items, transactions...)
	s.mu.Unlock()
}

// Update replaces the record with the same ID.
func (s *TransactionStore) Update(t model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == t.ID {
			s.items[i] = t
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes the given IDs and reports how many were found.
func (s *TransactionStore) Delete(ids []string) int {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	removed := 0
	for _, item := range s.items {
		if _, ok := drop[item.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	return removed
}
