// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"time"
)

// Buffer is a fully decoded block of audio held in memory.
// Data is interleaved: frame f, channel c lives at Data[f*Channels+c].
type Buffer struct {
	SampleRate int
	Channels   int
	Data       []float32
}

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Data) / b.Channels
}

// Seconds returns the buffer duration in seconds.
func (b *Buffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Duration returns the buffer duration.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Seconds() * float64(time.Second))
}

// Validate reports ErrUnsupportedAudio for buffers that carry no audio.
func (b *Buffer) Validate() error {
	switch {
	case b == nil:
		return fmt.Errorf("%w: nil buffer", ErrUnsupportedAudio)
	case b.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrUnsupportedAudio, b.Channels)
	case b.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedAudio, b.SampleRate)
	case b.Frames() == 0:
		return fmt.Errorf("%w: no samples", ErrUnsupportedAudio)
	}

	return nil
}

// Channel returns a copy of a single channel.
func (b *Buffer) Channel(c int) []float32 {
	frames := b.Frames()
	out := make([]float32, frames)
	for f := range frames {
		out[f] = b.Data[f*b.Channels+c]
	}

	return out
}

// Reader returns a Source that streams the buffer without modifying it.
func (b *Buffer) Reader() Source {
	return &bufferReader{buf: b}
}

type bufferReader struct {
	buf *Buffer
	pos int
}

func (r *bufferReader) SampleRate() int { return r.buf.SampleRate }
func (r *bufferReader) Channels() int   { return r.buf.Channels }
func (r *bufferReader) Close() error    { return nil }

func (r *bufferReader) ReadSamples(dst []float32) (int, error) {
	if r.pos >= len(r.buf.Data) {
		return 0, io.EOF
	}

	// only whole frames
	whole := len(dst) - len(dst)%r.buf.Channels
	n := copy(dst[:whole], r.buf.Data[r.pos:])
	r.pos += n

	if r.pos >= len(r.buf.Data) {
		return n, io.EOF
	}

	return n, nil
}

// maxEmptyReads bounds how many (0, nil) reads ReadAll tolerates in a row.
const maxEmptyReads = 100

// ReadAll drains src into a new Buffer. It does not close src.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedAudio, channels)
	}

	size := 4096 - 4096%channels
	if size == 0 {
		size = channels
	}
	chunk := make([]float32, size)
	var data []float32
	empty := 0

	for {
		n, err := src.ReadSamples(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
			empty = 0
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
		}
	}

	return &Buffer{
		SampleRate: src.SampleRate(),
		Channels:   channels,
		Data:       data,
	}, nil
}
