// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"github.com/google/uuid"

	"github.com/chromahubz/midify/notes"
)

type Stage int

const (
	Idle Stage = iota
	Loading
	Processing
	Complete
	Failed
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Processing:
		return "processing"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow without a new run.
func (s Stage) Terminal() bool {
	return s == Complete || s == Failed
}

// State is a snapshot of the converter.
type State struct {
	Stage   Stage
	Percent int
	Message string
	// Run identifies the conversion the state belongs to. It is uuid.Nil
	// while idle.
	Run uuid.UUID
}

// Result is the output of a completed conversion.
type Result struct {
	Notes []notes.NoteEvent
	MIDI  []byte
	// Size is len(MIDI), reported for display.
	Size int
}

// Observer receives every state change. Calls are serialized and never
// overlap. An observer must not call Start, Convert or Reset.
type Observer func(State)
