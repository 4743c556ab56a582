package peaks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tones/internal/peaks"
	"tones/internal/spectrogram"
)

// TestExtractSilenceYieldsNoPeaks matches spec.md §8's silent-WAV
// scenario: uniform zero magnitudes never exceed coef*avg, so no peaks
// are emitted.
func TestExtractSilenceYieldsNoPeaks(t *testing.T) {
	spec := &spectrogram.Spectrogram{
		Magnitude: [][]float64{make([]float64, 221), make([]float64, 221)},
		FreqIdx:   make([]int, 221),
		TimesMs:   []int{0, 5},
	}
	for i := range spec.FreqIdx {
		spec.FreqIdx[i] = i % 512
	}

	pts := peaks.Extract(spec, peaks.DefaultCoef)
	assert.Empty(t, pts)
}

func TestExtractSkipsZeroFreqIdxSentinel(t *testing.T) {
	nBins := 300
	mag := make([]float64, nBins)
	mag[0] = 1000 // strongest bin in band 0, but freq_idx there is 0
	spec := &spectrogram.Spectrogram{
		Magnitude: [][]float64{mag},
		FreqIdx:   make([]int, nBins), // all zero
		TimesMs:   []int{0},
	}

	pts := peaks.Extract(spec, 0.01)
	for _, p := range pts {
		assert.NotEqual(t, 0, p.FreqIdx)
	}
}

func TestExtractKeepsDominantBand(t *testing.T) {
	nBins := 300
	mag := make([]float64, nBins)
	freqIdx := make([]int, nBins)
	for i := range freqIdx {
		freqIdx[i] = i + 1 // avoid the zero-index sentinel
	}
	mag[15] = 500 // inside band [10,20]

	spec := &spectrogram.Spectrogram{
		Magnitude: [][]float64{mag},
		FreqIdx:   freqIdx,
		TimesMs:   []int{42},
	}

	pts := peaks.Extract(spec, 0.01)
	found := false
	for _, p := range pts {
		if p.TimeMs == 42 && p.FreqIdx == freqIdx[15] {
			found = true
		}
	}
	assert.True(t, found)
}

// TestExtractIncludesTopBin guards against excluding the single highest
// frequency bin from band 6's scan: with nBins=300, band 6 is
// [160, min(511,299)] = [160,299], and bin 299 must be reachable.
func TestExtractIncludesTopBin(t *testing.T) {
	nBins := 300
	mag := make([]float64, nBins)
	freqIdx := make([]int, nBins)
	for i := range freqIdx {
		freqIdx[i] = i + 1
	}
	mag[nBins-1] = 500 // the very last bin, top of band 6's closed range

	spec := &spectrogram.Spectrogram{
		Magnitude: [][]float64{mag},
		FreqIdx:   freqIdx,
		TimesMs:   []int{7},
	}

	pts := peaks.Extract(spec, 0.01)
	found := false
	for _, p := range pts {
		if p.TimeMs == 7 && p.FreqIdx == freqIdx[nBins-1] {
			found = true
		}
	}
	assert.True(t, found)
}
