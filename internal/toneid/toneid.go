// Package toneid implements C10: a deterministic 32-bit tone
// identifier derived from raw sample bytes, grounded on the teacher's
// utils.GenerateUniqueID but replacing its timestamp/random scheme with
// the spec's content-addressed SHA-256 derivation so identical audio
// always yields the same identifier.
package toneid

import (
	"crypto/sha256"
	"encoding/binary"
)

// FromRawBytes derives tone_id = big_endian_u32(sha256(rawSampleBytes)[0:4]).
// It is a pure function of the raw WAV sample buffer, computed before
// any preprocessing is applied (the buffer straight off the WAV reader),
// matching the source's behavior.
func FromRawBytes(rawSampleBytes []byte) uint32 {
	sum := sha256.Sum256(rawSampleBytes)
	return binary.BigEndian.Uint32(sum[:4])
}
