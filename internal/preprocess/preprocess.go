// Package preprocess implements C2: downmixing stereo to mono, a 4th
// order Butterworth lowpass, and integer decimation, applied to a
// decoded WAV buffer ahead of spectrogram analysis.
//
// The teacher mutates its WAVInfo in place through these stages; per
// DESIGN NOTES §9 this is reworked into a pipeline of pure transforms —
// each stage returns a new Signal rather than mutating its argument.
package preprocess

import (
	"fmt"
	"log/slog"

	"tones/internal/wavfile"
	"tones/internal/xlog"
)

// Signal is the decoded, channel-interleaved PCM sample stream plus the
// subset of WAVInfo fields the pipeline needs to keep consistent.
type Signal struct {
	SampleFreq    int
	BitsPerSample int
	Mono          bool
	Samples       []int64 // interleaved if !Mono
}

// Channels mirrors wavfile.Info's non-standard convention: Mono true
// means one channel, false means two.
func (s *Signal) Channels() int {
	if s.Mono {
		return 1
	}
	return 2
}

// BytesPerSec recomputes the WAVInfo invariant for the current state.
func (s *Signal) BytesPerSec() int {
	return s.SampleFreq * (s.BitsPerSample / 8) * s.Channels()
}

// Decode turns a parsed WAV buffer into a Signal of decoded integer
// samples, sign-extending 24-bit samples from their top byte as spec.md
// §4.2 requires.
func Decode(info *wavfile.Info) *Signal {
	width := int(info.BitsPerSample)
	bytesPerSample := width / 8
	data := info.Data
	n := len(data) / bytesPerSample

	samples := make([]int64, n)
	for i := 0; i < n; i++ {
		off := i * bytesPerSample
		samples[i] = decodeSample(data[off:off+bytesPerSample], width)
	}

	return &Signal{
		SampleFreq:    int(info.SampleFreq),
		BitsPerSample: width,
		Mono:          info.Mono,
		Samples:       samples,
	}
}

func decodeSample(b []byte, width int) int64 {
	var raw uint64
	for i, v := range b {
		raw |= uint64(v) << (8 * i)
	}

	signBit := uint64(1) << (width - 1)
	if raw&signBit != 0 {
		// sign-extend to 64 bits
		return int64(raw | ^uint64(0)<<width)
	}
	return int64(raw)
}

// Downmix converts an interleaved stereo Signal to mono by per-pair
// arithmetic mean with floor-division rounding. 24-bit samples are
// already sign-extended by Decode, so the mean is taken directly on the
// decoded values. If the input is already mono, Downmix returns it
// unchanged. An odd sample count after reinterpretation drops the
// trailing sample and logs a warning.
func Downmix(s *Signal) *Signal {
	if s.Mono {
		return s
	}

	samples := s.Samples
	if len(samples)%2 != 0 {
		slog.Warn("preprocess: odd sample count after stereo reinterpretation, dropping trailing sample", "count", len(samples))
		samples = samples[:len(samples)-1]
	}

	mono := make([]int64, len(samples)/2)
	for i := 0; i < len(mono); i++ {
		l, r := samples[2*i], samples[2*i+1]
		mono[i] = floorDiv(l+r, 2)
	}

	return &Signal{
		SampleFreq:    s.SampleFreq,
		BitsPerSample: s.BitsPerSample,
		Mono:          true,
		Samples:       mono,
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

const (
	minInt16 = -32768
	maxInt16 = 32767
)

// Lowpass applies the fixed 5000 Hz 4th-order Butterworth filter
// (§4.2) and clips the result to int16 range. When SampleFreq is 0 the
// filter is a no-op per spec.md's tie-break rule.
func Lowpass(s *Signal) *Signal {
	floats := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		floats[i] = float64(v)
	}

	filtered := butterworthLowpass4(floats, 5000.0, float64(s.SampleFreq))

	out := make([]int64, len(filtered))
	for i, v := range filtered {
		clamped := v
		if clamped > maxInt16 {
			clamped = maxInt16
		} else if clamped < minInt16 {
			clamped = minInt16
		}
		out[i] = int64(clamped)
	}

	return &Signal{
		SampleFreq:    s.SampleFreq,
		BitsPerSample: 16,
		Mono:          s.Mono,
		Samples:       out,
	}
}

// Decimate keeps every k-th sample and divides SampleFreq by k
// (integer division). Callers should supply k >= 2; a lowpass at 5000 Hz
// must always precede a Decimate call to avoid aliasing, matching
// spec.md §4.2.
func Decimate(s *Signal, k int) *Signal {
	if k <= 1 {
		cp := *s
		cp.Samples = append([]int64(nil), s.Samples...)
		return &cp
	}

	out := make([]int64, 0, (len(s.Samples)+k-1)/k)
	for i := 0; i < len(s.Samples); i += k {
		out = append(out, s.Samples[i])
	}

	return &Signal{
		SampleFreq:    s.SampleFreq / k,
		BitsPerSample: s.BitsPerSample,
		Mono:          s.Mono,
		Samples:       out,
	}
}

// Pipeline runs Downmix -> Lowpass(5000Hz) -> Decimate(k) on a parsed
// WAV buffer, the full C2 data flow used ahead of the spectrogram
// engine.
func Pipeline(info *wavfile.Info, decimationFactor int) (*Signal, error) {
	if decimationFactor < 1 {
		return nil, xlog.NewDecodeError("", errInvalidDecimation(decimationFactor))
	}
	s := Decode(info)
	s = Downmix(s)
	s = Lowpass(s)
	s = Decimate(s, decimationFactor)
	return s, nil
}

func errInvalidDecimation(k int) error {
	return xlog.Wrap("preprocess.Pipeline", fmt.Errorf("decimation factor must be >= 1, got %d", k))
}
