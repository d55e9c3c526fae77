// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
)

// mockSource generates audio from a waveform function.
type mockSource struct {
	sampleRate   int
	channels     int
	totalSamples int // per channel
	generated    int // per channel
	waveform     func(sample int, channel int) float32
	closed       bool
}

func newMockSource(sampleRate, channels, totalSamples int, waveform func(sample int, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:   sampleRate,
		channels:     channels,
		totalSamples: totalSamples,
		waveform:     waveform,
	}
}

func newSilentSource(sampleRate, channels, totalSamples int) *mockSource {
	return newConstantSource(sampleRate, channels, totalSamples, 0)
}

func newSineSource(sampleRate, channels, totalSamples int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(sample int, channel int) float32 {
		t := float64(sample) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func newConstantSource(sampleRate, channels, totalSamples int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, totalSamples, func(int, int) float32 {
		return value
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) Close() error    { m.closed = true; return nil }
func (m *mockSource) Reset()          { m.generated = 0 }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalSamples {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalSamples-m.generated)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}

	m.generated += frames
	if m.generated >= m.totalSamples {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// failingSource returns err after the first read.
type failingSource struct {
	reads int
	err   error
}

var errBrokenSource = errors.New("broken source")

func (f *failingSource) SampleRate() int { return 8000 }
func (f *failingSource) Channels() int   { return 1 }
func (f *failingSource) Close() error    { return nil }

func (f *failingSource) ReadSamples(dst []float32) (int, error) {
	f.reads++
	if f.reads > 1 {
		return 0, f.err
	}
	for i := range dst {
		dst[i] = 0.25
	}
	return len(dst), nil
}

func sineBuffer(sampleRate, channels, frames int, frequency float64) *Buffer {
	data := make([]float32, frames*channels)
	for f := range frames {
		v := float32(math.Sin(2 * math.Pi * frequency * float64(f) / float64(sampleRate)))
		for c := range channels {
			data[f*channels+c] = v
		}
	}
	return &Buffer{SampleRate: sampleRate, Channels: channels, Data: data}
}
