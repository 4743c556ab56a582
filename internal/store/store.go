// Package store implements C7, the index-store adapter boundary.
// Concrete storage is out of scope per spec.md §4.7; this package
// defines the abstract interface the core consumes and a Postgres/gorm
// implementation grounded on the teacher's main/db/db.go (gorm models)
// and db/postgres.go (ON CONFLICT DO NOTHING dedup semantics).
package store

import "tones/internal/models"

// Store is the abstract index-store interface C8 (Matcher) and C9
// (Batch Loader) consume. Callers must not assume any ordering of
// LookupByAddress results.
type Store interface {
	// CreateSchema idempotently initializes the tone and
	// address_couple tables.
	CreateSchema() error

	// ToneExists reports whether toneID is already registered.
	ToneExists(toneID uint32) (bool, error)

	// StoreTone registers a tone under toneID. Idempotent: storing an
	// existing toneID is a silent no-op (DuplicateTone is not an
	// error), so a tone partially re-ingested after an interrupted
	// batch run can always be safely re-ingested.
	StoreTone(toneID uint32, name string) error

	// StoreAddressCouples bulk-inserts (address, couple) pairs.
	// Duplicates on (address, couple) are silently dropped
	// (DuplicateAddressCouple is not an error).
	StoreAddressCouples(entries []models.AddressCouple) error

	// LookupByAddress returns every couple stored under address, in
	// unspecified order.
	LookupByAddress(address uint32) ([]uint64, error)

	// GetTone returns a tone by id, and false if it is not registered.
	GetTone(toneID uint32) (models.Tone, bool, error)

	// Close releases any underlying connection.
	Close() error
}
