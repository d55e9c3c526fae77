// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Normalize converts buf into the single-channel, targetRate layout a pitch
// model consumes. Channels are averaged first and the mono signal is then
// resampled, so inter-channel phase never passes through the filter twice.
//
// The input buffer is only read. The result has exactly
// OutputLength(buf.Frames(), buf.SampleRate, targetRate) samples.
//
// Returns ErrUnsupportedAudio when buf has no channels, no samples, or an
// invalid rate.
func Normalize(buf *Buffer, targetRate int) (*Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	if targetRate <= 0 {
		return nil, fmt.Errorf("%w: target sample rate %d", ErrUnsupportedAudio, targetRate)
	}

	if buf.Channels == 1 && buf.SampleRate == targetRate {
		data := make([]float32, len(buf.Data))
		copy(data, buf.Data)
		return &Buffer{SampleRate: targetRate, Channels: 1, Data: data}, nil
	}

	chain := NewResampler(NewMonoMixer(buf.Reader()), targetRate)
	defer chain.Close()

	out, err := ReadAll(chain)
	if err != nil {
		return nil, fmt.Errorf("normalizing audio: %w", err)
	}

	want := OutputLength(buf.Frames(), buf.SampleRate, targetRate)
	switch {
	case len(out.Data) > want:
		out.Data = out.Data[:want]
	case len(out.Data) < want:
		out.Data = append(out.Data, make([]float32, want-len(out.Data))...)
	}

	return out, nil
}
