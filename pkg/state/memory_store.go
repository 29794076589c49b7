package state

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store keyed by Ref.Identifier, meant for
// tests, examples and seeding.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	table Table
	meta  Meta
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

// Load returns a copy of the table stored for ref.
func (s *MemoryStore) Load(_ context.Context, ref Ref) (Table, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}
	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return record.table.Clone(), cloneMeta(record.meta), true, nil
}

// Save stores a copy of table for ref.
func (s *MemoryStore) Save(_ context.Context, ref Ref, table Table, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = map[string]memoryRecord{}
	}
	s.records[key] = memoryRecord{table: table.Clone(), meta: cloneMeta(meta)}
	return cloneMeta(meta), nil
}

// Delete removes ref and reports whether it existed.
func (s *MemoryStore) Delete(_ context.Context, ref Ref) (bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return false, nil
	}
	delete(s.records, key)
	return true, nil
}

// Len returns the number of stored tables.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
