// SPDX-License-Identifier: EPL-2.0

package midifile

import "fmt"

// DefaultBendRange is the General MIDI pitch-bend range in semitones.
const DefaultBendRange = 2.0

type Options struct {
	TicksPerQuarter int
	// Tempo in beats per minute. Note times are seconds, so the tempo only
	// decides how seconds map to ticks and beats.
	Tempo   float64
	Channel uint8
	// BendRange is the pitch-bend range in semitones the receiver is told to use.
	BendRange float64
	// DefaultVelocity replaces a zero note velocity, in [0,1].
	DefaultVelocity float64
	TrackName       string
}

func DefaultOptions() Options {
	return Options{
		TicksPerQuarter: 480,
		Tempo:           120,
		Channel:         0,
		BendRange:       DefaultBendRange,
		DefaultVelocity: 0.8,
	}
}

func (o Options) Validate() error {
	switch {
	case o.TicksPerQuarter <= 0 || o.TicksPerQuarter > 0x7fff:
		return fmt.Errorf("%w: %d ticks per quarter note", ErrSerialization, o.TicksPerQuarter)
	case o.Tempo <= 0:
		return fmt.Errorf("%w: tempo %g", ErrSerialization, o.Tempo)
	case o.Channel > 15:
		return fmt.Errorf("%w: channel %d", ErrSerialization, o.Channel)
	case o.BendRange <= 0 || o.BendRange > 127:
		return fmt.Errorf("%w: bend range %g", ErrSerialization, o.BendRange)
	case o.DefaultVelocity < 0 || o.DefaultVelocity > 1:
		return fmt.Errorf("%w: default velocity %g", ErrSerialization, o.DefaultVelocity)
	}
	return nil
}

// ticksPerSecond converts note times to ticks.
func (o Options) ticksPerSecond() float64 {
	return o.Tempo / 60 * float64(o.TicksPerQuarter)
}
