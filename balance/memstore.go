package balance

import (
	"fmt"
	"math"

	"github.com/sasha-s/go-deadlock"
)

// MemStore is an in-memory Store. Entries live only for the process
// lifetime; use BoltStore for durability.
type MemStore struct {
	mu      deadlock.RWMutex
	entries map[string]uint64
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]uint64)}
}

// Credit increases the entry at key by amount.
func (s *MemStore) Credit(key Key, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: credit amount must be > 0", ErrInvalidAmount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key.String()
	current := s.entries[k]
	if amount > math.MaxUint64-current {
		return fmt.Errorf("%w: have %d, credit %d", ErrBalanceOverflow, current, amount)
	}
	s.entries[k] = current + amount
	return nil
}

// Debit decreases the entry at key by amount.
func (s *MemStore) Debit(key Key, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key.String()
	current := s.entries[k]
	if amount > current {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, current, amount)
	}
	remaining := current - amount
	if remaining == 0 {
		delete(s.entries, k)
	} else {
		s.entries[k] = remaining
	}
	return nil
}

// Balance returns the current entry for key.
func (s *MemStore) Balance(key Key) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key.String()], nil
}
