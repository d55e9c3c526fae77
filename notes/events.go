// SPDX-License-Identifier: EPL-2.0

package notes

import (
	"fmt"

	"github.com/chromahubz/midify/matrix"
)

// NoteEvent is a transcribed note in wall-clock time.
type NoteEvent struct {
	Start     float64 // seconds
	End       float64 // seconds, always after Start
	Pitch     int     // MIDI note number
	Velocity  float64 // [0,1]
	PitchBend []BendPoint
}

// Duration returns End - Start in seconds.
func (e NoteEvent) Duration() float64 { return e.End - e.Start }

// ToEvents converts decoded notes into timed MIDI pitches using layout.
func ToEvents(raw []RawNote, layout matrix.Layout) ([]NoteEvent, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecoding, err)
	}

	events := make([]NoteEvent, 0, len(raw))
	for _, n := range raw {
		if n.PitchBin < 0 || n.PitchBin >= layout.PitchBins {
			return nil, fmt.Errorf("%w: pitch bin %d outside %d bins", ErrDecoding, n.PitchBin, layout.PitchBins)
		}

		if n.StartFrame < 0 || n.Frames() <= 0 {
			return nil, fmt.Errorf("%w: empty note span %d..%d", ErrDecoding, n.StartFrame, n.EndFrame)
		}

		events = append(events, NoteEvent{
			Start:    layout.FrameTime(n.StartFrame),
			End:      layout.FrameTime(n.EndFrame),
			Pitch:    layout.Pitch(n.PitchBin),
			Velocity: n.Velocity,
		})
	}

	return events, nil
}

// AddPitchBends fills PitchBend of events[i] from raw[i]. Both slices come
// from the same ToEvents call.
func AddPitchBends(events []NoteEvent, raw []RawNote, contours *matrix.Matrix, layout matrix.Layout, opts BendOptions) error {
	if len(events) != len(raw) {
		return fmt.Errorf("%w: %d events for %d notes", ErrDecoding, len(events), len(raw))
	}

	for i, n := range raw {
		curve, err := AttachBends(n, contours, layout, opts)
		if err != nil {
			return err
		}
		events[i].PitchBend = curve
	}

	return nil
}
