// SPDX-License-Identifier: EPL-2.0

// Package pcm adapts go-audio integer PCM decoders to audio.Source.
package pcm

import (
	"bytes"
	"errors"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/utils"
)

// ErrBitDepth is returned for sample sizes other than 8, 16, 24 or 32 bits.
var ErrBitDepth = errors.New("unsupported PCM bit depth")

// Reader is the subset of the go-audio wav and aiff decoders used here.
type Reader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams a Reader as float32 samples.
type Source struct {
	// Unsigned8 marks 8-bit data stored as 0..255 (WAV) rather than
	// signed (AIFF).
	Unsigned8 bool

	dec      Reader
	format   *goaudio.Format
	bitDepth int
	buf      *goaudio.IntBuffer
	closer   io.Closer
}

// SupportedDepth reports whether bitDepth can be converted.
func SupportedDepth(bitDepth int) bool {
	switch bitDepth {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

// Seekable returns r itself when it can seek, otherwise its contents
// buffered in memory. The go-audio decoders need to seek.
func Seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// NewSource wraps dec. closer may be nil.
func NewSource(dec Reader, format *goaudio.Format, bitDepth int, closer io.Closer) (*Source, error) {
	if !SupportedDepth(bitDepth) {
		return nil, ErrBitDepth
	}

	return &Source{
		dec:      dec,
		format:   format,
		bitDepth: bitDepth,
		closer:   closer,
	}, nil
}

func (s *Source) SampleRate() int { return s.format.SampleRate }
func (s *Source) Channels() int   { return s.format.NumChannels }

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.format.NumChannels != 0 {
		return 0, audio.ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < len(dst) {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, err
		}
		return 0, io.EOF
	}

	bias := 0
	if s.Unsigned8 && s.bitDepth == 8 {
		bias = 128
	}
	for i := range n {
		dst[i] = utils.PCMToFloat32(s.buf.Data[i]-bias, s.bitDepth)
	}

	if err == io.EOF {
		return n, io.EOF
	}
	return n, err
}
