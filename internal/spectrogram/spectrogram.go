// Package spectrogram implements C3, the Spectrogram Engine: a
// one-sided STFT with a Hann window and 50% overlap, followed by 9-bit
// log-spaced frequency quantization (§4.3/§4.3a).
//
// The FFT itself is delegated to github.com/mjibson/go-dsp/fft rather
// than the teacher's hand-rolled recursive Cooley-Tukey split (see
// core/FFT.go), the way the pack's own main/pipeline module already
// depends on go-dsp.
package spectrogram

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrogram is the STFT output: magnitude |Z[f,t]|, the quantized
// frequency axis (Hz bin -> 9-bit index), and integer-millisecond time
// axis. Overlap is retained for diagnostic use.
type Spectrogram struct {
	Magnitude [][]float64 // Magnitude[t][f]
	FreqIdx   []int       // len == nperseg/2+1, quantized 9-bit indices
	TimesMs   []int
	Overlap   int
}

// Compute derives window size and overlap from targetRes (Hz) and
// sampleFreq, builds a Hann-windowed, 50%-overlapping STFT with no
// boundary extension, and quantizes the frequency axis.
func Compute(samples []float64, sampleFreq int, targetRes float64) (*Spectrogram, error) {
	if sampleFreq <= 0 || targetRes <= 0 {
		return &Spectrogram{}, nil
	}

	windowSize := int(math.Round(float64(sampleFreq) / targetRes))
	if windowSize < 2 {
		windowSize = 2
	}
	overlap := windowSize / 2
	hop := windowSize - overlap
	if hop < 1 {
		hop = 1
	}

	window := hannWindow(windowSize)
	nBins := windowSize/2 + 1

	var mags [][]float64
	var timesMs []int

	for start := 0; start+windowSize <= len(samples); start += hop {
		frame := make([]float64, windowSize)
		for i := 0; i < windowSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}

		spectrum := fft.FFTReal(frame)
		mag := make([]float64, nBins)
		for f := 0; f < nBins; f++ {
			mag[f] = cmplx.Abs(spectrum[f])
		}
		mags = append(mags, mag)

		timeSec := float64(start) / float64(sampleFreq)
		timesMs = append(timesMs, int(math.Round(timeSec*1000.0)))
	}

	freqIdx := make([]int, nBins)
	for f := 0; f < nBins; f++ {
		freqHz := float64(f) * float64(sampleFreq) / float64(windowSize)
		freqIdx[f] = QuantizeFreq9Bit(freqHz)
	}

	return &Spectrogram{
		Magnitude: mags,
		FreqIdx:   freqIdx,
		TimesMs:   timesMs,
		Overlap:   overlap,
	}, nil
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// logBinCenters are the 512 log-spaced bin centers b[i] = 20*(1000)^(i/511)
// used by QuantizeFreq9Bit, computed once at package initialization.
var logBinCenters = computeLogBinCenters()

func computeLogBinCenters() [512]float64 {
	var centers [512]float64
	for i := 0; i < 512; i++ {
		centers[i] = 20.0 * math.Pow(20000.0/20.0, float64(i)/511.0)
	}
	return centers
}

// QuantizeFreq9Bit maps a frequency in Hz to a 9-bit index in [0,511]
// per spec.md §4.3a: 0 below 20 Hz, 511 above 20000 Hz, otherwise the
// nearest of 512 log-spaced bin centers between 20 Hz and 20000 Hz.
func QuantizeFreq9Bit(freqHz float64) int {
	if freqHz < 20 {
		return 0
	}
	if freqHz > 20000 {
		return 511
	}

	best, bestDist := 0, math.Inf(1)
	for i, b := range logBinCenters {
		d := math.Abs(b - freqHz)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
