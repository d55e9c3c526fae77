// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/internal/pcm"
)

// formatPCM is the WAVE_FORMAT_PCM tag of the fmt chunk.
const formatPCM = 1

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

// Open parses the header and returns a Source positioned at the first
// sample. Integer PCM at 8, 16, 24 and 32 bits is supported.
func Open(r io.Reader) (audio.Source, error) {
	rs, err := pcm.Seekable(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	if dec.WavAudioFormat != formatPCM || dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	depth := int(dec.BitDepth)
	if !pcm.SupportedDepth(depth) {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, depth)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	src, err := pcm.NewSource(dec, dec.Format(), depth, nil)
	if err != nil {
		return nil, err
	}
	src.Unsigned8 = true

	return src, nil
}
