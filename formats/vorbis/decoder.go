// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/utils"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read returns the number of interleaved values written, always a
	// multiple of Channels.
	Read([]float32) (int, error)
}

type source struct {
	dec oggReader
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return s.dec.Channels() }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.dec.Channels() != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	n, err := s.dec.Read(dst)

	// vorbis synthesis can overshoot full scale slightly
	for i := range n {
		dst[i] = utils.Clamp(dst[i], -1, 1)
	}

	return n, err
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

// Open reads the Vorbis headers and returns a streaming Source.
func Open(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotOggVorbis, err)
	}

	return &source{dec: dec}, nil
}
