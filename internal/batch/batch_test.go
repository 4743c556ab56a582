package batch_test

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tones/internal/batch"
	"tones/internal/store"
)

func writeWAV(t *testing.T, path string, seed byte) {
	t.Helper()
	data := make([]byte, 2*8000)
	for i := range data {
		data[i] = byte((i*13 + int(seed)) % 251)
	}

	buf := make([]byte, 0, 44+len(data))
	put32 := func(v uint32) { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); buf = append(buf, b...) }
	put16 := func(v uint16) { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); buf = append(buf, b...) }

	buf = append(buf, "RIFF"...)
	put32(uint32(36 + len(data)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	put32(16)
	put16(1)
	put16(1)
	put32(8000)
	put32(16000)
	put16(2)
	put16(16)
	buf = append(buf, "data"...)
	put32(uint32(len(data)))
	buf = append(buf, data...)

	require.NoError(t, os.WriteFile(path, buf, 0644))
}

func TestLoadIndexesAndDedups(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "a.wav"), 1)
	writeWAV(t, filepath.Join(dir, "b.wav"), 2)
	// duplicate content (byte-identical to a.wav) under a different name
	writeWAV(t, filepath.Join(dir, "a-copy.wav"), 1)
	// non-audio file, must be skipped by the extension filter
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not audio"), 0644))

	s := store.NewMemStore()
	opts := batch.DefaultOptions
	opts.ErrorLog = filepath.Join(dir, "error.log")

	summary, err := batch.Load(context.Background(), s, dir, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestLoadContextCancellation(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "a.wav"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before Load starts dispatching

	s := store.NewMemStore()
	opts := batch.DefaultOptions
	opts.ErrorLog = filepath.Join(dir, "error.log")

	summary, err := batch.Load(ctx, s, dir, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Indexed)
}
