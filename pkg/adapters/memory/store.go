// Package memory implements ports.DonationStore in process memory,
// for tests and single-process hosts.
package memory

import (
	"context"
	"sync"

	"github.com/satchelhq/satchel/pkg/domain"
	"github.com/satchelhq/satchel/pkg/ports"
)

// Store implements ports.DonationStore in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]ports.Donation
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{data: make(map[string]ports.Donation)}
}

// Save persists the donation. Saving the same key twice overwrites;
// donation keys embed the session ID, so collisions mean a re-donation
// within one session and the latest consent wins.
func (s *Store) Save(_ context.Context, d ports.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[d.Key] = d
	return nil
}

// Load retrieves a donation by key.
func (s *Store) Load(_ context.Context, key string) (ports.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[key]
	if !ok {
		return ports.Donation{}, domain.ErrDonationNotFound
	}
	return d, nil
}

// Delete removes a donation.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored donation keys.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}
