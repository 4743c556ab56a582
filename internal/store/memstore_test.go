package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tones/internal/models"
	"tones/internal/store"
)

func TestMemStoreStoreToneIsIdempotent(t *testing.T) {
	s := store.NewMemStore()
	require.NoError(t, s.StoreTone(1, "first"))
	require.NoError(t, s.StoreTone(1, "second")) // DuplicateTone: silent no-op

	tone, found, err := s.GetTone(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first", tone.Name)
}

func TestMemStoreAddressCouplesDedup(t *testing.T) {
	s := store.NewMemStore()
	entries := []models.AddressCouple{
		{Address: 7, Couple: 100},
		{Address: 7, Couple: 100}, // duplicate (address, couple)
		{Address: 7, Couple: 200},
	}
	require.NoError(t, s.StoreAddressCouples(entries))

	couples, err := s.LookupByAddress(7)
	require.NoError(t, err)
	assert.Len(t, couples, 2)
}

func TestMemStoreToneExists(t *testing.T) {
	s := store.NewMemStore()
	exists, err := s.ToneExists(5)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.StoreTone(5, "five"))
	exists, err = s.ToneExists(5)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemStoreGetToneMissing(t *testing.T) {
	s := store.NewMemStore()
	_, found, err := s.GetTone(999)
	require.NoError(t, err)
	assert.False(t, found)
}
