// SPDX-License-Identifier: EPL-2.0

package matrix

import (
	"fmt"
	"math"
)

// Model constants of the pitch estimator the decoder is tuned for.
const (
	ModelSampleRate      = 22050
	ModelHopSize         = 256
	ModelMIDIOffset      = 21
	ModelPitchBins       = 88
	ModelBinsPerSemitone = 3

	// the model analyses 2 s windows; each one yields 172 frames
	modelWindowSamples = ModelSampleRate*2 - ModelHopSize
	modelWindowFrames  = 172
)

// Layout describes how matrix rows and columns map to time and pitch.
type Layout struct {
	// SampleRate and HopSize give the frame period HopSize/SampleRate.
	SampleRate int
	HopSize    int

	// MIDIOffset is the MIDI number of pitch bin 0.
	MIDIOffset int
	PitchBins  int

	// BinsPerSemitone is the contour resolution. Contour bin
	// p*BinsPerSemitone is the center of pitch bin p.
	BinsPerSemitone int

	// WindowFrames and WindowOffset correct the drift introduced when audio
	// is analysed in fixed windows: every WindowFrames frames the frame
	// times shift back by WindowOffset seconds. Zero disables it.
	WindowFrames int
	WindowOffset float64
}

// ModelLayout returns the layout of the 88-key polyphonic pitch model.
func ModelLayout() Layout {
	period := float64(ModelHopSize) / ModelSampleRate
	offset := period*(modelWindowFrames-float64(modelWindowSamples)/ModelHopSize) + 0.0018

	return Layout{
		SampleRate:      ModelSampleRate,
		HopSize:         ModelHopSize,
		MIDIOffset:      ModelMIDIOffset,
		PitchBins:       ModelPitchBins,
		BinsPerSemitone: ModelBinsPerSemitone,
		WindowFrames:    modelWindowFrames,
		WindowOffset:    offset,
	}
}

// Validate checks that the layout is usable and maps into MIDI 0..127.
func (l Layout) Validate() error {
	switch {
	case l.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrLayout, l.SampleRate)
	case l.HopSize <= 0:
		return fmt.Errorf("%w: hop size %d", ErrLayout, l.HopSize)
	case l.PitchBins <= 0:
		return fmt.Errorf("%w: %d pitch bins", ErrLayout, l.PitchBins)
	case l.BinsPerSemitone <= 0:
		return fmt.Errorf("%w: %d contour bins per semitone", ErrLayout, l.BinsPerSemitone)
	case l.MIDIOffset < 0 || l.MIDIOffset+l.PitchBins > 128:
		return fmt.Errorf("%w: bins %d..%d outside MIDI range", ErrLayout, l.MIDIOffset, l.MIDIOffset+l.PitchBins-1)
	case l.WindowFrames < 0 || l.WindowOffset < 0:
		return fmt.Errorf("%w: negative window correction", ErrLayout)
	case l.WindowFrames > 0 && l.WindowOffset >= l.FramePeriod():
		return fmt.Errorf("%w: window offset %g not below frame period", ErrLayout, l.WindowOffset)
	}

	return nil
}

// FramePeriod is the duration of one frame in seconds.
func (l Layout) FramePeriod() float64 {
	return float64(l.HopSize) / float64(l.SampleRate)
}

// FrameTime returns the start time of frame f in seconds. It is strictly
// increasing in f for any valid layout.
func (l Layout) FrameTime(f int) float64 {
	t := float64(f) * l.FramePeriod()
	if l.WindowFrames > 0 {
		t -= l.WindowOffset * math.Floor(float64(f)/float64(l.WindowFrames))
	}
	return t
}

// Frames returns how many frames cover n samples at the layout rate.
func (l Layout) Frames(samples int) int {
	return (samples + l.HopSize - 1) / l.HopSize
}

// ContourBins is the column count of a contour matrix.
func (l Layout) ContourBins() int {
	return l.PitchBins * l.BinsPerSemitone
}

// Pitch maps a pitch bin to its MIDI note number.
func (l Layout) Pitch(bin int) int {
	return bin + l.MIDIOffset
}

// Frequency returns the frequency in Hz at the center of contour bin b.
func (l Layout) Frequency(b int) float64 {
	midi := float64(l.MIDIOffset) + float64(b)/float64(l.BinsPerSemitone)
	return 440 * math.Pow(2, (midi-69)/12)
}
