// Package decode is the external-decoder collaborator from spec.md §6:
// "a subprocess that accepts a file path and produces canonical WAVE
// bytes on its standard output." The teacher shells out to ffmpeg for
// this (fileformat/convert.go's ConvertToWAV); this package keeps that
// path for arbitrary containers but adds native Go decoders for the
// three formats spec.md names explicitly (.wav, .mp3, .flac), avoiding
// the ffmpeg subprocess entirely for the common case.
package decode

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"

	"tones/internal/xlog"
)

// ToCanonicalWAV produces RIFF/WAVE bytes for path. It dispatches on
// extension to a native decoder for .mp3/.flac and falls back to the
// external ffmpeg subprocess for anything other than .wav, per spec.md
// §6's "Supported input formats" and "External decoder" sections. A
// .wav file is returned exactly as read from disk: it is not
// canonicalized, so extra chunks (LIST, JUNK, ...) are left in place.
func ToCanonicalWAV(path string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		return os.ReadFile(path)
	case ".mp3":
		return decodeMP3(path)
	case ".flac":
		return decodeFLAC(path)
	default:
		return viaExternalDecoder(path)
	}
}

func decodeMP3(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}

	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}

	// go-mp3 decodes to 16-bit stereo little-endian PCM.
	wavBytes, err := wrapPCMAsWAV(pcm, dec.SampleRate(), 2, 16)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}
	return wavBytes, nil
}

func decodeFLAC(path string) ([]byte, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bps := int(stream.Info.BitsPerSample)
	sampleRate := int(stream.Info.SampleRate)

	var buf bytes.Buffer
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xlog.NewDecodeError(path, err)
		}
		writeFrameSamples(&buf, frame, bps)
	}

	wavBytes, err := wrapPCMAsWAV(buf.Bytes(), sampleRate, channels, bps)
	if err != nil {
		return nil, xlog.NewDecodeError(path, err)
	}
	return wavBytes, nil
}

func viaExternalDecoder(path string) ([]byte, error) {
	cmd := exec.Command("ffmpeg", "-v", "quiet", "-i", path, "-f", "wav", "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, xlog.NewDecodeError(path, fmt.Errorf("external decoder failed: %w (%s)", err, stderr.String()))
	}
	return stdout.Bytes(), nil
}

// wrapPCMAsWAV canonicalizes already-decoded interleaved PCM into a
// RIFF/WAVE buffer using go-audio/wav's encoder, the same library the
// teacher's main/go.mod pulls in for WAV I/O. The encoder requires a
// io.WriteSeeker, so it's driven through a scratch temp file, mirroring
// the teacher's fileformat/convert.go temp-file idiom.
func wrapPCMAsWAV(pcm []byte, sampleRate, channels, bitsPerSample int) ([]byte, error) {
	tmp, err := os.CreateTemp("", "tones-decode-*.wav")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := wav.NewEncoder(tmp, sampleRate, bitsPerSample, channels, 1)

	ints := make([]int, len(pcm)/(bitsPerSample/8))
	bytesPerSample := bitsPerSample / 8
	for i := range ints {
		var v int
		off := i * bytesPerSample
		for b := 0; b < bytesPerSample; b++ {
			v |= int(pcm[off+b]) << (8 * b)
		}
		shift := 32 - bitsPerSample
		ints[i] = int(int32(uint32(v)<<shift) >> shift) // sign-extend
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: bitsPerSample,
	}
	if err := enc.Write(buf); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	return os.ReadFile(tmpPath)
}

// writeFrameSamples appends one flac.Frame's decoded subframes as
// little-endian interleaved PCM at the stream's native bit depth.
func writeFrameSamples(buf *bytes.Buffer, frame *flac.Frame, bps int) {
	nSamples := len(frame.Subframes[0].Samples)
	nChan := len(frame.Subframes)
	bytesPerSample := bps / 8

	for i := 0; i < nSamples; i++ {
		for c := 0; c < nChan; c++ {
			v := frame.Subframes[c].Samples[i]
			for b := 0; b < bytesPerSample; b++ {
				buf.WriteByte(byte(v >> (8 * b)))
			}
		}
	}
}
