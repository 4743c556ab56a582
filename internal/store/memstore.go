package store

import (
	"sync"

	"tones/internal/models"
)

// MemStore is an in-memory Store used by the unit test suite so
// self-match and round-trip properties can be exercised without a live
// Postgres instance. It honors the same duplicate-is-a-no-op
// invariants as PostgresStore.
type MemStore struct {
	mu     sync.Mutex
	tones  map[uint32]string
	byAddr map[uint32]map[uint64]bool
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		tones:  make(map[uint32]string),
		byAddr: make(map[uint32]map[uint64]bool),
	}
}

func (m *MemStore) CreateSchema() error { return nil }

func (m *MemStore) ToneExists(toneID uint32) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tones[toneID]
	return ok, nil
}

func (m *MemStore) StoreTone(toneID uint32, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tones[toneID]; exists {
		return nil // DuplicateTone: silent no-op
	}
	m.tones[toneID] = name
	return nil
}

func (m *MemStore) StoreAddressCouples(entries []models.AddressCouple) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		bucket, ok := m.byAddr[e.Address]
		if !ok {
			bucket = make(map[uint64]bool)
			m.byAddr[e.Address] = bucket
		}
		bucket[e.Couple] = true // duplicate (address, couple) silently dropped by set semantics
	}
	return nil
}

func (m *MemStore) LookupByAddress(address uint32) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.byAddr[address]
	out := make([]uint64, 0, len(bucket))
	for couple := range bucket {
		out = append(out, couple)
	}
	return out, nil
}

func (m *MemStore) GetTone(toneID uint32) (models.Tone, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name, exists := m.tones[toneID]
	if !exists {
		return models.Tone{}, false, nil
	}
	return models.Tone{ToneID: toneID, Name: name}, true, nil
}

func (m *MemStore) Close() error { return nil }

var _ Store = (*MemStore)(nil)
