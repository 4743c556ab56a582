// Package peaks implements C4, the Peak Extractor: per time frame,
// picks the strongest bin in each of 6 logarithmic frequency bands and
// applies a mean-relative threshold, grounded on the teacher's
// core/spectrogram.go ExtractPeaks band-scan loop generalized to the
// quantized 9-bit frequency axis spec.md §4.4 specifies.
package peaks

import "tones/internal/spectrogram"

// Peak is a salient time-frequency point: a 9-bit quantized frequency
// index and an integer millisecond timestamp.
type Peak struct {
	FreqIdx int
	TimeMs  int
}

// DefaultCoef is the mean-relative threshold multiplier (coef * avg).
const DefaultCoef = 0.5

// band is a closed [lo, hi] range over quantized frequency indices;
// per spec.md §4.4 adjacent bands share their boundary index (e.g. bin
// 10 belongs to both [0,10] and [10,20]).
type band struct{ lo, hi int }

func bands(nBins int) [6]band {
	cap6 := nBins - 1
	if cap6 > 511 {
		cap6 = 511
	}
	if cap6 < 160 {
		cap6 = 160 // degenerate tiny spectra still get a well-formed (possibly empty) 6th band
	}
	return [6]band{
		{0, 10}, {10, 20}, {20, 40}, {40, 80}, {80, 160}, {160, cap6},
	}
}

// Extract scans each time column of a spectrogram, keeping the
// strongest bin per band whose strength exceeds coef*avg(all 6 band
// maxima), and returns a (freq, time) peak list in frame order.
func Extract(spec *spectrogram.Spectrogram, coef float64) []Peak {
	if coef <= 0 {
		coef = DefaultCoef
	}

	var out []Peak
	bs := bands(len(spec.FreqIdx))

	for t, frame := range spec.Magnitude {
		var strengths [6]float64
		var freqs [6]int
		var kept [6]bool

		for bi, b := range bs {
			hi := b.hi
			if hi > len(frame)-1 {
				hi = len(frame) - 1
			}
			lo := b.lo
			if lo > hi {
				continue
			}

			bestIdx, bestMag := lo, frame[lo]
			for i := lo + 1; i <= hi; i++ {
				if frame[i] > bestMag {
					bestMag = frame[i]
					bestIdx = i
				}
			}
			strengths[bi] = bestMag
			freqs[bi] = spec.FreqIdx[bestIdx]
		}

		var sum float64
		for _, s := range strengths {
			sum += s
		}
		avg := sum / 6.0

		for bi := range strengths {
			if strengths[bi] > coef*avg {
				kept[bi] = true
			}
		}

		for bi := range freqs {
			if !kept[bi] {
				continue
			}
			if freqs[bi] == 0 {
				continue // zero-padding sentinel; not a real peak
			}
			out = append(out, Peak{FreqIdx: freqs[bi], TimeMs: spec.TimesMs[t]})
		}
	}

	return out
}
