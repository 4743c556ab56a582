package fingerprint

import "tones/internal/peaks"

// Record is an emitted (address, couple) fingerprint entry, still in
// decoded form. Address/Couple packing happens at the store boundary
// via EncodeAddress/EncodeCouple.
type Record struct {
	AnchorFreq uint32
	ZoneFreq   uint32
	DeltaMs    uint32
	AnchorTime uint32
	ToneID     uint32
}

// Address packs this record's address fields.
func (r Record) Address() uint32 { return EncodeAddress(r.AnchorFreq, r.ZoneFreq, r.DeltaMs) }

// Couple packs this record's couple fields.
func (r Record) Couple() uint64 { return EncodeCouple(r.AnchorTime, r.ToneID) }

const targetZoneSize = 5

// OrderTimeFreq implements generateTimeFreqOrderRelation (§4.5): a
// stable ordering over the raw (freq, time) peak list where entries
// sharing a timestamp are emitted with the smaller frequency index
// first; other entries retain their original relative order. The
// result is the dense pos -> freq mapping the target-zone builder
// consumes.
func OrderTimeFreq(pts []peaks.Peak) []peaks.Peak {
	ordered := make([]peaks.Peak, len(pts))
	copy(ordered, pts)

	// A single stable sort by (time, freq) reproduces "ascending
	// frequency within equal time, original order otherwise" because
	// the input already arrives in non-decreasing time order from the
	// peak extractor (frame order); only same-time runs need
	// frequency-ascending tie-breaking.
	i := 0
	for i < len(ordered) {
		j := i
		for j < len(ordered) && ordered[j].TimeMs == ordered[i].TimeMs {
			j++
		}
		insertionSortByFreq(ordered[i:j])
		i = j
	}
	return ordered
}

func insertionSortByFreq(run []peaks.Peak) {
	for i := 1; i < len(run); i++ {
		v := run[i]
		j := i - 1
		for j >= 0 && run[j].FreqIdx > v.FreqIdx {
			run[j+1] = run[j]
			j--
		}
		run[j+1] = v
	}
}

// Build runs §4.5 end to end: orders the peak list, forms every
// 5-point target zone (one per starting offset i in [0, N-5]), and
// emits 5 records per zone using the anchor taken from the
// *pre-ordering* peak list at max(0, i-3) — the source's documented
// choice (DESIGN NOTES §9's anchor-indexing open question), preserved
// here for compatibility with previously-indexed data.
func Build(rawPts []peaks.Peak, toneID uint32) []Record {
	ordered := OrderTimeFreq(rawPts)
	n := len(ordered)
	if n < 5 {
		return nil
	}

	var records []Record
	for i := 0; i <= n-5; i++ {
		anchorPos := i - 3
		if anchorPos < 0 {
			anchorPos = 0
		}
		anchor := rawPts[anchorPos]

		for j := i; j < i+targetZoneSize; j++ {
			pt := ordered[j]
			deltaMs := pt.TimeMs - anchor.TimeMs
			if deltaMs < 0 {
				deltaMs = -deltaMs
			}
			records = append(records, Record{
				AnchorFreq: uint32(anchor.FreqIdx),
				ZoneFreq:   uint32(pt.FreqIdx),
				DeltaMs:    uint32(deltaMs),
				AnchorTime: uint32(anchor.TimeMs),
				ToneID:     toneID,
			})
		}
	}
	return records
}
