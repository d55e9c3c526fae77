// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/internal/pcm"
	"github.com/chromahubz/midify/utils"
)

// encodeChunk is the number of frames converted per encoder write.
const encodeChunk = 8192

// Encode writes buf as integer PCM. Samples outside [-1, 1] are clipped.
// The header sizes are patched on close, hence the io.WriteSeeker.
func Encode(ws io.WriteSeeker, buf *audio.Buffer, bitDepth int) error {
	if !pcm.SupportedDepth(bitDepth) {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, bitDepth)
	}
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	enc := wav.NewEncoder(ws, buf.SampleRate, bitDepth, buf.Channels, formatPCM)

	bias := 0
	if bitDepth == 8 {
		bias = 128
	}

	step := encodeChunk * buf.Channels
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: buf.Channels, SampleRate: buf.SampleRate},
		Data:           make([]int, 0, min(step, len(buf.Data))),
		SourceBitDepth: bitDepth,
	}

	for i := 0; i < len(buf.Data); i += step {
		end := min(i+step, len(buf.Data))
		ib.Data = ib.Data[:0]
		for _, s := range buf.Data[i:end] {
			ib.Data = append(ib.Data, utils.Float32ToPCM(s, bitDepth)+bias)
		}

		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("writing samples: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing wav encoder: %w", err)
	}

	return nil
}
