package pipeline_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tones/internal/match"
	"tones/internal/pipeline"
	"tones/internal/store"
)

func writeWAV(t *testing.T, path string, sampleFreq uint32, data []byte) {
	t.Helper()
	buf := make([]byte, 0, 44+len(data))
	put32 := func(v uint32) { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); buf = append(buf, b...) }
	put16 := func(v uint16) { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); buf = append(buf, b...) }

	buf = append(buf, "RIFF"...)
	put32(uint32(36 + len(data)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	put32(16)
	put16(1) // PCM
	put16(1) // channels=1: wavfile.Parse treats only 0 as mono, so this reads as stereo
	put32(sampleFreq)
	put32(sampleFreq * 2)
	put16(2)
	put16(16)
	buf = append(buf, "data"...)
	put32(uint32(len(data)))
	buf = append(buf, data...)

	require.NoError(t, os.WriteFile(path, buf, 0644))
}

// TestRunOnSilenceYieldsNoRecords follows spec.md §8's silence scenario:
// a 16-bit WAV of silence at 44.1 kHz (read as stereo, see writeWAV),
// downmixed and downsampled x4, yields no peaks (uniform zero magnitudes
// never exceed the threshold), so zero fingerprint records are emitted.
func TestRunOnSilenceYieldsNoRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "silence.wav")
	writeWAV(t, path, 44100, make([]byte, 2*44100)) // 1 second of silence

	res, err := pipeline.Run(path, pipeline.DefaultParams)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

// TestIndexThenSearchSelfMatch exercises the full C1-C8 chain: index a
// tone, then search the same file and expect it back as the winner.
func TestIndexThenSearchSelfMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")

	data := make([]byte, 2*44100)
	for i := range data {
		data[i] = byte((i * 37) % 251) // non-uniform content so peaks are extracted
	}
	writeWAV(t, path, 44100, data)

	s := store.NewMemStore()
	indexed, err := pipeline.Index(s, path, "my-tone", pipeline.DefaultParams)
	require.NoError(t, err)
	require.NotEmpty(t, indexed.Records)

	searched, err := pipeline.Run(path, pipeline.DefaultParams)
	require.NoError(t, err)

	winner, _, ok := match.Match(s, searched.Queries(), match.DefaultTolerances, match.DefaultCoeff, match.DefaultCutoff)
	require.True(t, ok)
	assert.Equal(t, "my-tone", winner)
}
