// Package models holds the data types shared across the fingerprinting
// pipeline and the index store adapter.
package models

// Couple is the 64-bit packed (anchor_time, tone_id) pair, decoded form.
type Couple struct {
	AnchorTimeMs uint32
	ToneID       uint32
}

// Tone is a catalog entry: a tone identifier and its display name.
type Tone struct {
	ToneID uint32 `gorm:"primaryKey;autoIncrement:false" json:"tone_id"`
	Name   string `gorm:"size:500;not null" json:"name"`
}

// AddressCouple is a stored (address, couple) fingerprint row. Couple is
// kept packed (64-bit) at the storage boundary so uniqueness on
// (address, couple) is a single composite key, matching spec.md's
// index-entry invariant.
type AddressCouple struct {
	Address uint32 `gorm:"primaryKey;autoIncrement:false" json:"address"`
	Couple  uint64 `gorm:"primaryKey;autoIncrement:false" json:"couple"`
}

// TableName pins the gorm table name regardless of package import path.
func (AddressCouple) TableName() string { return "address_couple" }

// TableName pins the gorm table name for Tone.
func (Tone) TableName() string { return "tone" }
