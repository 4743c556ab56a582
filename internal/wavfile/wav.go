// Package wavfile implements C1, the WAV Reader: it parses a canonical
// RIFF/WAVE byte buffer into a WAVInfo and exposes raw PCM sample bytes
// and format metadata. Grounded on the teacher's fileformat/wav.go
// header-parsing approach, generalized to the full field set and bit
// widths spec.md §4.1 requires.
package wavfile

import (
	"encoding/binary"
	"fmt"

	"github.com/mdobak/go-xerrors"
)

// supportedBitWidths enumerates the PCM widths the pipeline can decode.
var supportedBitWidths = map[uint16]bool{8: true, 16: true, 24: true, 32: true, 64: true}

// Info is the parsed WAVE container: chunk tags, format fields, and the
// raw interleaved PCM sample bytes. It is constructed once by Parse; the
// preprocess package reads it into new Signal values and never mutates
// it.
type Info struct {
	RIFFTag       string
	Size          uint32
	WAVETag       string
	FmtTag        string
	FmtChunkSize  uint32
	FormatCode    uint16
	Mono          bool
	SampleFreq    uint32
	BytesPerSec   uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       string
	DataChunkSize uint32
	Data          []byte
}

const headerBeforeDataSize = 36 // everything before the "data" tag (RIFF header plus a 16-byte fmt chunk)

// Channels returns the channel count implied by the mono flag: the
// source's non-standard convention is that a zero channels field means
// mono and anything else means stereo, so only 1 or 2 is observable here.
func (w *Info) Channels() int {
	if w.Mono {
		return 1
	}
	return 2
}

// recomputeBytesPerSec restores the invariant
// bytes_per_second = sample_freq * (bits_per_sample/8) * channels
// after any mutation to SampleFreq, BitsPerSample, or Mono.
func (w *Info) recomputeBytesPerSec() {
	w.BytesPerSec = w.SampleFreq * uint32(w.BitsPerSample/8) * uint32(w.Channels())
}

// Parse decodes a canonical WAVE buffer per spec.md §4.1's fixed field
// order. Non-canonical chunks (LIST, JUNK, ...) are not handled; the
// caller's external decoder is expected to have already canonicalized
// the input.
func Parse(buf []byte) (*Info, error) {
	const minLen = 44
	if len(buf) < minLen {
		return nil, xerrors.New(fmt.Errorf("wav: buffer too short: %d bytes, need at least %d", len(buf), minLen))
	}

	r := &cursor{buf: buf}

	info := &Info{}
	info.RIFFTag = r.tag(4)
	info.Size = r.u32le()
	info.WAVETag = r.tag(4)
	info.FmtTag = r.tag(4)
	info.FmtChunkSize = r.u32le()
	info.FormatCode = r.u16le()

	channels := r.u16le()
	info.Mono = channels == 0

	info.SampleFreq = r.u32le()
	info.BytesPerSec = r.u32le()
	info.BlockAlign = r.u16le()
	info.BitsPerSample = r.u16le()
	info.DataTag = r.tag(4)
	info.DataChunkSize = r.u32le()

	if r.err != nil {
		return nil, xerrors.New(fmt.Errorf("wav: malformed header: %w", r.err))
	}
	if info.RIFFTag != "RIFF" || info.WAVETag != "WAVE" {
		return nil, xerrors.New(fmt.Errorf("wav: not a RIFF/WAVE buffer (tags %q/%q)", info.RIFFTag, info.WAVETag))
	}
	if !supportedBitWidths[info.BitsPerSample] {
		return nil, xerrors.New(fmt.Errorf("wav: unsupported bits per sample: %d", info.BitsPerSample))
	}

	remaining := buf[minLen:]
	if int(info.DataChunkSize) <= len(remaining) {
		info.Data = remaining[:info.DataChunkSize]
	} else {
		info.Data = remaining
	}

	info.recomputeBytesPerSec()
	return info, nil
}

// cursor walks buf consuming fixed-width fields left to right, recording
// the first decode error (e.g. non-ASCII tag bytes) encountered.
type cursor struct {
	buf []byte
	pos int
	err error
}

func (c *cursor) take(n int) []byte {
	if c.err != nil || c.pos+n > len(c.buf) {
		if c.err == nil {
			c.err = fmt.Errorf("short buffer at offset %d reading %d bytes", c.pos, n)
		}
		return make([]byte, n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) tag(n int) string {
	b := c.take(n)
	for _, ch := range b {
		if ch > 0x7F {
			if c.err == nil {
				c.err = fmt.Errorf("non-ASCII byte in tag at offset %d", c.pos-n)
			}
		}
	}
	return string(b)
}

func (c *cursor) u16le() uint16 { return binary.LittleEndian.Uint16(c.take(2)) }
func (c *cursor) u32le() uint32 { return binary.LittleEndian.Uint32(c.take(4)) }
