// Package match implements C8, the two-stage matcher: per-tone
// temporal coherency (Stage A), falling back to a match-ratio cutoff
// with a top-five fallback (Stage B), per spec.md §4.8. Grounded on the
// teacher's core/shazoom.go FindMatchesUsingFingerPrints skeleton,
// completed to the full scoring contract spec.md describes (the
// teacher's version stops short of implementing the scoring itself).
package match

import (
	"sort"

	"tones/internal/fingerprint"
	"tones/internal/store"
)

// Query is one fingerprint record from the sample being searched.
type Query struct {
	Address    uint32
	AnchorTime uint32
}

// NewQuery builds a Query from an emitted fingerprint record.
func NewQuery(r fingerprint.Record) Query {
	return Query{Address: r.Address(), AnchorTime: r.AnchorTime}
}

// Result is a candidate tone with its resolved score, returned from
// Stage B when no single winner emerges from Stage A.
type Result struct {
	ToneID     uint32
	Name       string
	MatchRatio float64
}

// Tolerances bundles the zone-match tolerance pair (§4.8 step 2).
type Tolerances struct {
	TimeMs float64
	Freq   float64
}

// DefaultTolerances is (0.1, 0.1) per spec.md's default.
var DefaultTolerances = Tolerances{TimeMs: 0.1, Freq: 0.1}

const (
	// DefaultCoeff is Stage A's coherency-score acceptance threshold
	// multiplier (coeff * num_target_zones).
	DefaultCoeff = 0.5
	// DefaultCutoff is Stage B's match-ratio acceptance threshold.
	DefaultCutoff = 0.5
)

type candidate struct {
	toneID           uint32
	commonCount      int
	storedAnchorTime []uint32 // zone-match-passing stored anchor times, per §4.8 step 2's per-song list
}

// Match runs the full matcher over queryRecords (one per fingerprint
// emitted for the sample being searched) against s, and returns a
// single winning tone name if Stage A succeeds, or the Stage B
// candidate list otherwise. ok is false only when both stages produce
// nothing (spec.md's "not found").
func Match(s store.Store, queries []Query, tol Tolerances, coeff, cutoff float64) (winner string, results []Result, ok bool) {
	if len(queries) == 0 {
		return "", nil, false
	}
	if coeff <= 0 {
		coeff = DefaultCoeff
	}
	if cutoff <= 0 {
		cutoff = DefaultCutoff
	}

	candidates := make(map[uint32]*candidate)

	for _, q := range queries {
		stored, err := s.LookupByAddress(q.Address)
		if err != nil || len(stored) == 0 {
			continue
		}

		// The address bucket lookup already guarantees the stored and
		// query anchor/zone frequencies are identical (both decode
		// from the same address integer), so the frequency half of
		// the zone-match test is always satisfied; only the time half
		// can differ, since anchor time lives in the couple, not the
		// address.
		queryAnchorFreq, _, _ := fingerprint.DecodeAddress(q.Address)

		for _, packedCouple := range stored {
			storedAnchorTime, toneID := fingerprint.DecodeCouple(packedCouple)
			storedAnchorFreq, _, _ := fingerprint.DecodeAddress(q.Address)

			if !zoneMatch(q.AnchorTime, storedAnchorTime, queryAnchorFreq, storedAnchorFreq, tol) {
				continue
			}

			c, exists := candidates[toneID]
			if !exists {
				c = &candidate{toneID: toneID}
				candidates[toneID] = c
			}
			c.commonCount++
			c.storedAnchorTime = append(c.storedAnchorTime, storedAnchorTime)
		}
	}

	numTargetZones := len(queries)

	// Stage A: temporal coherency. Per §4.8 step 3, the coherency score
	// is the mode of |query_anchor_time - stored_anchor_time| taken
	// across the full cross-product of every query record against a
	// candidate song's whole stored-matching-record list, not just the
	// query/record pair that happened to produce a given hit.
	var (
		bestTone  uint32
		bestScore int
		haveBest  bool
	)
	for toneID, c := range candidates {
		score := coherencyScore(queries, c.storedAnchorTime)
		if score > bestScore {
			bestScore = score
			bestTone = toneID
			haveBest = true
		}
	}
	if haveBest && float64(bestScore) >= coeff*float64(numTargetZones) {
		tone, found, err := s.GetTone(bestTone)
		if err == nil && found {
			return tone.Name, nil, true
		}
	}

	// Stage B: match-ratio fallback.
	var all []Result
	for toneID, c := range candidates {
		ratio := float64(c.commonCount) / float64(numTargetZones)
		name := ""
		if tone, found, err := s.GetTone(toneID); err == nil && found {
			name = tone.Name
		}
		all = append(all, Result{ToneID: toneID, Name: name, MatchRatio: ratio})
	}

	if len(all) == 0 {
		return "", nil, false
	}

	sort.Slice(all, func(i, j int) bool { return all[i].MatchRatio > all[j].MatchRatio })

	var passing []Result
	for _, r := range all {
		if r.MatchRatio >= cutoff {
			passing = append(passing, r)
		}
	}
	if len(passing) > 0 {
		return "", passing, true
	}

	top := all
	if len(top) > 5 {
		top = top[:5]
	}
	return "", top, true
}

func zoneMatch(queryAnchorTime, storedAnchorTime, queryFreq, storedFreq uint32, tol Tolerances) bool {
	timeDiff := float64(queryAnchorTime) - float64(storedAnchorTime)
	if timeDiff < 0 {
		timeDiff = -timeDiff
	}
	freqDiff := float64(queryFreq) - float64(storedFreq)
	if freqDiff < 0 {
		freqDiff = -freqDiff
	}
	return timeDiff <= tol.TimeMs && freqDiff <= tol.Freq
}

// coherencyScore computes the mode of |query_anchor_time -
// stored_anchor_time| across every (query, stored) pair in the cross
// product of queries x storedAnchorTimes, per §4.8 step 3.
func coherencyScore(queries []Query, storedAnchorTimes []uint32) int {
	if len(queries) == 0 || len(storedAnchorTimes) == 0 {
		return 0
	}
	counts := make(map[int64]int, len(queries)*len(storedAnchorTimes))
	best := 0
	for _, q := range queries {
		for _, storedAnchorTime := range storedAnchorTimes {
			delta := int64(q.AnchorTime) - int64(storedAnchorTime)
			if delta < 0 {
				delta = -delta
			}
			counts[delta]++
			if counts[delta] > best {
				best = counts[delta]
			}
		}
	}
	return best
}
