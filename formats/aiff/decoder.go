// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/internal/pcm"
)

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

func newSource(dec aiffReader, bitDepth int) (audio.Source, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	src, err := pcm.NewSource(dec, format, bitDepth, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitDepth)
	}

	return src, nil
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

// Open parses the COMM chunk and returns a streaming Source. Readers that
// cannot seek are buffered in memory first.
func Open(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	return newSource(dec, int(dec.BitDepth))
}
