// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/utils"
)

const (
	// go-mp3 always yields 16-bit little endian stereo.
	channels   = 2
	frameBytes = 2 * channels
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
	// carry holds the bytes of a frame split across two reads.
	carry int
}

func newSource(dec mp3Reader) *source {
	return &source{dec: dec, sampleRate: dec.SampleRate()}
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%channels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		grown := make([]byte, need)
		copy(grown, s.buf[:s.carry])
		s.buf = grown
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf[s.carry:])
	n += s.carry
	whole := n - n%frameBytes

	samples := whole / 2
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(s.buf[2*i:]))
		dst[i] = utils.PCMToFloat32(int(v), 16)
	}
	s.carry = copy(s.buf, s.buf[whole:n])

	if err == io.EOF {
		// a trailing partial frame is dropped
		s.carry = 0
	}
	if samples == 0 && err == nil {
		return 0, nil
	}

	return samples, err
}

type Decoder struct{}

// Decode reads the whole stream into memory.
func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	src, err := Open(r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return audio.ReadAll(src)
}

// Open starts decoding r. The returned Source is always stereo.
func Open(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return newSource(dec), nil
}
