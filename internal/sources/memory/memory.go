// Package memory is an in-memory implementation of the source ports, used
// as the development backend and in service tests.
package memory

import (
	"context"
	"sync"

	"cashbook/internal/core"
	"cashbook/internal/sources"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.Mutex
	sales   []core.Sale
	costs   []core.Cost
	entries []core.ManualEntry
	master  core.MasterData
}

func New(master core.MasterData) *Store {
	return &Store{master: master}
}

// Seed replaces the read-only collections. Intended for tests and the dev
// backend; the real subsystems that own sales and costs write to SQLite.
func (s *Store) Seed(sales []core.Sale, costs []core.Cost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append([]core.Sale(nil), sales...)
	s.costs = append([]core.Cost(nil), costs...)
}

func (s *Store) ListSales(_ context.Context) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Sale(nil), s.sales...), nil
}

func (s *Store) ListCosts(_ context.Context) ([]core.Cost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Cost(nil), s.costs...), nil
}

func (s *Store) ListManualEntries(_ context.Context) ([]core.ManualEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ManualEntry(nil), s.entries...), nil
}

func (s *Store) GetManualEntry(_ context.Context, id string) (*core.ManualEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, sources.ErrNotFound
}

func (s *Store) CreateManualEntry(_ context.Context, entry core.ManualEntry) (string, error) {
	if err := entry.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries = append(s.entries, entry)
	return entry.ID, nil
}

func (s *Store) UpdateManualEntry(_ context.Context, entry core.ManualEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			return nil
		}
	}
	return sources.ErrNotFound
}

func (s *Store) DeleteManualEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return sources.ErrNotFound
}

func (s *Store) MasterData(_ context.Context) (core.MasterData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master, nil
}

// Ensure interface conformance
var (
	_ sources.SaleReader       = (*Store)(nil)
	_ sources.CostReader       = (*Store)(nil)
	_ sources.ManualEntryStore = (*Store)(nil)
	_ sources.MasterDataReader = (*Store)(nil)
)
