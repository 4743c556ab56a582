package wavfile_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tones/internal/wavfile"
)

// buildWAV assembles a minimal canonical RIFF/WAVE buffer per spec.md
// §4.1's fixed field order.
func buildWAV(sampleFreq uint32, channels uint16, bitsPerSample uint16, data []byte) []byte {
	buf := make([]byte, 0, 44+len(data))
	put32 := func(v uint32) { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); buf = append(buf, b...) }
	put16 := func(v uint16) { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); buf = append(buf, b...) }

	buf = append(buf, "RIFF"...)
	put32(uint32(36 + len(data)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	put32(16)
	put16(1) // PCM format code
	put16(channels)
	put32(sampleFreq)
	blockAlign := channels * (bitsPerSample / 8)
	put32(sampleFreq * uint32(blockAlign))
	put16(blockAlign)
	put16(bitsPerSample)
	buf = append(buf, "data"...)
	put32(uint32(len(data)))
	buf = append(buf, data...)
	return buf
}

func TestParseStereo16Bit(t *testing.T) {
	data := make([]byte, 8) // two stereo frames
	buf := buildWAV(44100, 2, 16, data)

	info, err := wavfile.Parse(buf)
	require.NoError(t, err)

	assert.Equal(t, "RIFF", info.RIFFTag)
	assert.Equal(t, "WAVE", info.WAVETag)
	assert.False(t, info.Mono)
	assert.Equal(t, uint32(44100), info.SampleFreq)
	assert.Equal(t, uint16(16), info.BitsPerSample)
	assert.Equal(t, data, info.Data)
}

func TestParseMonoChannelsZeroConvention(t *testing.T) {
	buf := buildWAV(8000, 0, 8, []byte{1, 2, 3, 4})

	info, err := wavfile.Parse(buf)
	require.NoError(t, err)
	assert.True(t, info.Mono)
	assert.Equal(t, 1, info.Channels())
}

// TestBytesPerSecondInvariant is the §8 testable property:
// bytes_per_second = sample_freq * (bits/8) * channels.
func TestBytesPerSecondInvariant(t *testing.T) {
	cases := []struct {
		freq     uint32
		channels uint16
		bits     uint16
	}{
		{44100, 2, 16},
		{22050, 1, 8},
		{48000, 2, 24},
		{8000, 0, 32}, // mono via the zero-channels convention
	}

	for _, c := range cases {
		buf := buildWAV(c.freq, c.channels, c.bits, make([]byte, 16))
		info, err := wavfile.Parse(buf)
		require.NoError(t, err)

		want := info.SampleFreq * uint32(info.BitsPerSample/8) * uint32(info.Channels())
		assert.Equal(t, want, info.BytesPerSec)
	}
}

func TestParseRejectsShortBuffer(t *testing.T) {
	_, err := wavfile.Parse([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestParseRejectsBadTag(t *testing.T) {
	buf := buildWAV(44100, 2, 16, []byte{0, 0})
	buf[0] = 'X' // corrupt the RIFF tag
	_, err := wavfile.Parse(buf)
	assert.Error(t, err)
}

func TestParseRejectsUnsupportedBitWidth(t *testing.T) {
	buf := buildWAV(44100, 2, 12, []byte{0, 0})
	_, err := wavfile.Parse(buf)
	assert.Error(t, err)
}
