package toneid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tones/internal/toneid"
)

// TestFromRawBytesDeterminism is the §8 testable property: tone_id is a
// pure function of the input bytes.
func TestFromRawBytesDeterminism(t *testing.T) {
	data := []byte("some raw PCM sample bytes")
	id1 := toneid.FromRawBytes(data)
	id2 := toneid.FromRawBytes(append([]byte(nil), data...))
	assert.Equal(t, id1, id2)
}

func TestFromRawBytesDiffersOnDifferentInput(t *testing.T) {
	id1 := toneid.FromRawBytes([]byte("a"))
	id2 := toneid.FromRawBytes([]byte("b"))
	assert.NotEqual(t, id1, id2)
}

func TestFromRawBytesEmpty(t *testing.T) {
	// Empty input is still a well-defined SHA-256 preimage.
	id := toneid.FromRawBytes(nil)
	assert.Equal(t, toneid.FromRawBytes([]byte{}), id)
}
