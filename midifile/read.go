// SPDX-License-Identifier: EPL-2.0

package midifile

import (
	"fmt"
	"io"
	"math"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/chromahubz/midify/notes"
)

// File is the content of a parsed MIDI file.
type File struct {
	Notes           []notes.NoteEvent
	TicksPerQuarter int
	Tempo           float64 // first tempo, 120 when absent
	TrackName       string
	BendRange       float64
}

type sounding struct {
	ch    uint8
	event notes.NoteEvent
}

// Read parses a Standard MIDI File back into note events.
//
// Note-on and note-off are paired per channel and key in order. Pitch bends
// are attached to every note sounding on their channel, relative to its
// start, and a note that starts under an active bend begins with that bend.
// Curves that never leave zero are dropped.
func Read(r io.Reader) (*File, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported time format %v", ErrInvalidFile, s.TimeFormat)
	}

	f := &File{TicksPerQuarter: int(mt), Tempo: 120, BendRange: DefaultBendRange}
	tempoSeen := false

	for _, track := range s.Tracks {
		var absTicks int64
		var active []*sounding
		var rpnMSB, rpnLSB uint8 = 127, 127
		bends := map[uint8]float64{}

		for _, ev := range track {
			absTicks += int64(ev.Delta)
			at := float64(s.TimeAt(absTicks)) / 1e6

			var bpm float64
			var name string
			if !tempoSeen && ev.Message.GetMetaTempo(&bpm) {
				f.Tempo, tempoSeen = bpm, true
				continue
			}
			if f.TrackName == "" && ev.Message.GetMetaTrackName(&name) {
				f.TrackName = name
				continue
			}

			msg := midi.Message(ev.Message)
			var ch, key, vel, cc, val uint8
			var rel int16
			var abs uint16

			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				n := &sounding{ch: ch, event: notes.NoteEvent{Start: at, Pitch: int(key), Velocity: float64(vel) / 127}}
				if b := bends[ch]; b != 0 {
					n.event.PitchBend = append(n.event.PitchBend, notes.BendPoint{Semitones: b})
				}
				active = append(active, n)

			case msg.GetNoteEnd(&ch, &key):
				i := slices.IndexFunc(active, func(n *sounding) bool { return n.ch == ch && n.event.Pitch == int(key) })
				if i < 0 {
					continue
				}
				n := active[i]
				active = slices.Delete(active, i, i+1)
				n.event.End = at
				f.Notes = append(f.Notes, n.event)

			case msg.GetPitchBend(&ch, &rel, &abs):
				semis := float64(rel) / 8192 * f.BendRange
				bends[ch] = semis
				for _, n := range active {
					if n.ch == ch {
						n.event.PitchBend = append(n.event.PitchBend, notes.BendPoint{Offset: at - n.event.Start, Semitones: semis})
					}
				}

			case msg.GetControlChange(&ch, &cc, &val):
				switch cc {
				case 101:
					rpnMSB = val
				case 100:
					rpnLSB = val
				case 6:
					if rpnMSB == 0 && rpnLSB == 0 {
						f.BendRange = float64(val)
					}
				case 38:
					if rpnMSB == 0 && rpnLSB == 0 {
						f.BendRange = math.Floor(f.BendRange) + float64(val)/100
					}
				}
			}
		}

		// notes still sounding end with the track
		end := float64(s.TimeAt(absTicks)) / 1e6
		for _, n := range active {
			n.event.End = math.Max(end, n.event.Start)
			f.Notes = append(f.Notes, n.event)
		}
	}

	for i := range f.Notes {
		if flat(f.Notes[i].PitchBend) {
			f.Notes[i].PitchBend = nil
		}
	}

	slices.SortStableFunc(f.Notes, func(a, b notes.NoteEvent) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return a.Pitch - b.Pitch
	})

	return f, nil
}

func flat(curve []notes.BendPoint) bool {
	for _, p := range curve {
		if p.Semitones != 0 {
			return false
		}
	}
	return true
}
