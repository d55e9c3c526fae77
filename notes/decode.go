// SPDX-License-Identifier: EPL-2.0

package notes

import (
	"fmt"
	"slices"

	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/utils"
)

// RawNote is a note in matrix coordinates. EndFrame is exclusive.
type RawNote struct {
	PitchBin   int
	StartFrame int
	EndFrame   int
	Velocity   float64
}

// Frames returns the note length in frames.
func (n RawNote) Frames() int { return n.EndFrame - n.StartFrame }

type DecodeOptions struct {
	// OnsetThreshold is the activation an onset peak must exceed.
	OnsetThreshold float64
	// FrameThreshold is the activation a frame must exceed to sustain a note.
	FrameThreshold float64
	// MinNoteFrames drops notes shorter than this.
	MinNoteFrames int
}

func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		OnsetThreshold: 0.25,
		FrameThreshold: 0.25,
		MinNoteFrames:  5,
	}
}

func (o DecodeOptions) Validate() error {
	switch {
	case o.OnsetThreshold < 0 || o.OnsetThreshold > 1:
		return fmt.Errorf("%w: onset threshold %g outside [0,1]", ErrInvalidOptions, o.OnsetThreshold)
	case o.FrameThreshold < 0 || o.FrameThreshold > 1:
		return fmt.Errorf("%w: frame threshold %g outside [0,1]", ErrInvalidOptions, o.FrameThreshold)
	case o.MinNoteFrames < 1:
		return fmt.Errorf("%w: minimum note length %d frames", ErrInvalidOptions, o.MinNoteFrames)
	}
	return nil
}

// Decode segments frame and onset activations into notes.
//
// Every pitch bin is decoded on its own. A frame is an onset when its onset
// activation exceeds OnsetThreshold, is strictly above the previous frame
// and not below the next one, so a plateau yields its first frame only.
// A note covers its onset frame and every following frame whose activation
// exceeds FrameThreshold, up to the start of the next kept note on the same
// bin. Onsets are resolved from the last one backwards, which means a later
// onset that turns out too short never cuts an earlier note.
//
// Velocity is the onset activation clipped to [0,1]. Notes are returned
// ordered by start frame, then pitch bin. No notes is not an error.
func Decode(frames, onsets *matrix.Matrix, opts DecodeOptions) ([]RawNote, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := checkPair(frames, onsets); err != nil {
		return nil, err
	}

	var out []RawNote
	candidates := make([]int, 0, 16)

	for p := range frames.Cols() {
		candidates = onsetPeaks(onsets, p, float32(opts.OnsetThreshold), candidates[:0])

		limit := frames.Rows()
		for i := len(candidates) - 1; i >= 0; i-- {
			start := candidates[i]
			end := sustain(frames, p, start, limit, float32(opts.FrameThreshold))
			if end-start < opts.MinNoteFrames {
				continue
			}

			out = append(out, RawNote{
				PitchBin:   p,
				StartFrame: start,
				EndFrame:   end,
				Velocity:   utils.Clamp(float64(onsets.At(start, p)), 0, 1),
			})
			limit = start
		}
	}

	slices.SortFunc(out, func(a, b RawNote) int {
		if a.StartFrame != b.StartFrame {
			return a.StartFrame - b.StartFrame
		}
		return a.PitchBin - b.PitchBin
	})

	return out, nil
}

// onsetPeaks appends the onset frames of bin p to dst in ascending order.
func onsetPeaks(onsets *matrix.Matrix, p int, thr float32, dst []int) []int {
	last := onsets.Rows() - 1
	for t := range onsets.Rows() {
		v := onsets.At(t, p)
		if v <= thr {
			continue
		}
		if t > 0 && v <= onsets.At(t-1, p) {
			continue
		}
		if t < last && v < onsets.At(t+1, p) {
			continue
		}
		dst = append(dst, t)
	}
	return dst
}

// sustain returns the exclusive end frame of a note starting at start.
func sustain(frames *matrix.Matrix, p, start, limit int, thr float32) int {
	end := start + 1
	for end < limit && frames.At(end, p) > thr {
		end++
	}
	return end
}
