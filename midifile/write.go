// SPDX-License-Identifier: EPL-2.0

package midifile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/chromahubz/midify/notes"
	"github.com/chromahubz/midify/utils"
)

// kind orders events that share a tick.
type kind int

const (
	kindOff kind = iota
	kindBendReset
	kindOn
	kindBend
)

type timed struct {
	tick int64
	kind kind
	msg  midi.Message
}

// Encode serializes events into a single-track Standard MIDI File.
func Encode(events []notes.NoteEvent, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, events, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes events to w and returns the number of bytes written.
//
// The track starts with an optional name, the tempo and, when BendRange
// differs from the General MIDI default, a pitch-bend sensitivity RPN.
// Note-on, note-off and pitch-bend events of all notes are merged in time
// order; events on the same tick keep the order note-off, bend reset,
// note-on, bend.
func Write(w io.Writer, events []notes.NoteEvent, opts Options) (int64, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}

	timeline, err := schedule(events, opts)
	if err != nil {
		return 0, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(uint16(opts.TicksPerQuarter))

	var tr smf.Track
	if opts.TrackName != "" {
		tr.Add(0, smf.MetaTrackSequenceName(opts.TrackName))
	}
	tr.Add(0, smf.MetaTempo(opts.Tempo))

	if opts.BendRange != DefaultBendRange {
		for _, msg := range bendRangeRPN(opts.Channel, opts.BendRange) {
			tr.Add(0, msg)
		}
	}

	var last int64
	for _, e := range timeline {
		delta := e.tick - last
		if delta > math.MaxUint32 {
			return 0, fmt.Errorf("%w: delta of %d ticks", ErrSerialization, delta)
		}
		tr.Add(uint32(delta), e.msg)
		last = e.tick
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return n, nil
}

// schedule converts notes into a sorted list of timed channel messages.
func schedule(events []notes.NoteEvent, opts Options) ([]timed, error) {
	tps := opts.ticksPerSecond()
	toTick := func(sec float64) int64 { return int64(math.Round(sec * tps)) }
	ch := opts.Channel

	out := make([]timed, 0, 2*len(events))
	for i, e := range events {
		if err := check(e); err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}

		on := toTick(e.Start)
		off := max(toTick(e.End), on+1)
		key := uint8(e.Pitch)

		out = append(out,
			timed{tick: on, kind: kindOn, msg: midi.NoteOn(ch, key, velocity(e.Velocity, opts.DefaultVelocity))},
			timed{tick: off, kind: kindOff, msg: midi.NoteOff(ch, key)},
		)

		if len(e.PitchBend) == 0 {
			continue
		}

		for _, p := range e.PitchBend {
			tick := utils.Clamp(toTick(e.Start+p.Offset), on, off-1)
			out = append(out, timed{tick: tick, kind: kindBend, msg: midi.Pitchbend(ch, bendValue(p.Semitones, opts.BendRange))})
		}
		out = append(out, timed{tick: off, kind: kindBendReset, msg: midi.Pitchbend(ch, 0)})
	}

	slices.SortStableFunc(out, func(a, b timed) int {
		if a.tick != b.tick {
			if a.tick < b.tick {
				return -1
			}
			return 1
		}
		return int(a.kind) - int(b.kind)
	})

	return out, nil
}

func check(e notes.NoteEvent) error {
	switch {
	case e.Pitch < 0 || e.Pitch > 127:
		return fmt.Errorf("%w: pitch %d outside MIDI range", ErrSerialization, e.Pitch)
	case math.IsNaN(e.Start) || math.IsNaN(e.End) || math.IsInf(e.End, 0):
		return fmt.Errorf("%w: non-finite note time", ErrSerialization)
	case e.Start < 0:
		return fmt.Errorf("%w: negative start %g", ErrSerialization, e.Start)
	case e.End <= e.Start:
		return fmt.Errorf("%w: end %g not after start %g", ErrSerialization, e.End, e.Start)
	case math.IsNaN(e.Velocity):
		return fmt.Errorf("%w: velocity is NaN", ErrSerialization)
	}

	for _, p := range e.PitchBend {
		if math.IsNaN(p.Offset) || math.IsNaN(p.Semitones) || p.Offset < 0 {
			return fmt.Errorf("%w: invalid bend point %+v", ErrSerialization, p)
		}
	}

	return nil
}

// velocity maps [0,1] to 1..127. Zero uses fallback.
func velocity(v, fallback float64) uint8 {
	if v <= 0 {
		v = fallback
	}
	return uint8(utils.Clamp(math.Round(v*127), 1, 127))
}

// bendValue maps semitones to the 14-bit signed pitch-bend range.
func bendValue(semitones, bendRange float64) int16 {
	return int16(utils.Clamp(math.Round(semitones/bendRange*8192), -8192, 8191))
}

// bendRangeRPN sets pitch-bend sensitivity (RPN 0,0) and deselects the RPN.
func bendRangeRPN(ch uint8, bendRange float64) []midi.Message {
	semis := math.Floor(bendRange)
	cents := math.Round((bendRange - semis) * 100)
	if cents >= 100 {
		semis, cents = semis+1, 0
	}

	return []midi.Message{
		midi.ControlChange(ch, 101, 0),
		midi.ControlChange(ch, 100, 0),
		midi.ControlChange(ch, 6, uint8(semis)),
		midi.ControlChange(ch, 38, uint8(cents)),
		midi.ControlChange(ch, 101, 127),
		midi.ControlChange(ch, 100, 127),
	}
}
