// Package fingerprint implements C5 (target-zone construction and
// address/couple emission) and C6 (bit-packing codec), grounded on the
// teacher's core/fingerprinting.go createAddress and models.Couple.
package fingerprint

const (
	anchorBits = 9
	freqBits   = 9
	deltaBits  = 14

	freqMask  = (1 << freqBits) - 1
	deltaMask = (1 << deltaBits) - 1
)

// EncodeAddress packs (anchor, freq, delta) into the 32-bit address
// layout anchor(9) | freq(9) | delta(14) per spec.md §4.6. Callers
// ensure anchor, freq in [0,511] and delta in [0,16383].
func EncodeAddress(anchor, freq, delta uint32) uint32 {
	return (anchor << 23) | ((freq & freqMask) << 14) | (delta & deltaMask)
}

// DecodeAddress is the symmetric inverse of EncodeAddress.
func DecodeAddress(address uint32) (anchor, freq, delta uint32) {
	anchor = address >> 23
	freq = (address >> 14) & freqMask
	delta = address & deltaMask
	return
}

// EncodeCouple packs (anchorTime, toneID) into the 64-bit layout
// anchor_time(32) | song_id(32).
func EncodeCouple(anchorTimeMs, toneID uint32) uint64 {
	return (uint64(anchorTimeMs) << 32) | uint64(toneID)
}

// DecodeCouple is the symmetric inverse of EncodeCouple.
func DecodeCouple(couple uint64) (anchorTimeMs, toneID uint32) {
	anchorTimeMs = uint32(couple >> 32)
	toneID = uint32(couple & 0xFFFFFFFF)
	return
}
