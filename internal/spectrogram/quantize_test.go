package spectrogram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tones/internal/spectrogram"
)

func TestQuantizeFreqBoundaries(t *testing.T) {
	assert.Equal(t, 0, spectrogram.QuantizeFreq9Bit(0))
	assert.Equal(t, 0, spectrogram.QuantizeFreq9Bit(19.9))
	assert.Equal(t, 511, spectrogram.QuantizeFreq9Bit(20000.1))
	assert.Equal(t, 511, spectrogram.QuantizeFreq9Bit(30000))
}

// TestQuantizeMonotonicity is the §8 testable property:
// quantize_freq_9bit(f1) <= quantize_freq_9bit(f2) for all 20 <= f1 <= f2 <= 20000.
func TestQuantizeMonotonicity(t *testing.T) {
	prev := spectrogram.QuantizeFreq9Bit(20)
	for f := 20.0; f <= 20000; f += 7.3 {
		q := spectrogram.QuantizeFreq9Bit(f)
		assert.GreaterOrEqual(t, q, prev)
		prev = q
	}
}

func TestComputeHandlesZeroSampleFreq(t *testing.T) {
	spec, err := spectrogram.Compute([]float64{1, 2, 3}, 0, 100)
	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(spec.Magnitude)
}

func TestComputeWindowSizing(t *testing.T) {
	samples := make([]float64, 1000)
	spec, err := spectrogram.Compute(samples, 44100, 100)
	assert.NoError(t, err)
	// W = round(44100/100) = 441, nBins = W/2+1 = 221
	assert.Len(t, spec.FreqIdx, 221)
	assert.Equal(t, 220, spec.Overlap)
}
