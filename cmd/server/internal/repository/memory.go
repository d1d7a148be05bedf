package repository

import (
	"context"
	"sync"
)

// Compile-time check to ensure MemoryStore implements PriceStore
var _ PriceStore = (*MemoryStore)(nil)

// MemoryStore is a process-local PriceStore backed by a plain map. Entries
// live for the process lifetime; there is no eviction.
type MemoryStore struct {
	mu     sync.RWMutex
	prices map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{prices: make(map[string]float64)}
}

func (s *MemoryStore) LastPrice(_ context.Context, symbol string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	price, ok := s.prices[symbol]
	return price, ok, nil
}

func (s *MemoryStore) SetLastPrice(_ context.Context, symbol string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
	return nil
}

func (s *MemoryStore) Close() error { return nil }
