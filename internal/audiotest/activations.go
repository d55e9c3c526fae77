// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"github.com/chromahubz/midify/inference"
	"github.com/chromahubz/midify/matrix"
)

// Layout maps pitch bin n straight to MIDI note n with three contour bins
// per semitone and no window correction.
func Layout() matrix.Layout {
	return matrix.Layout{
		SampleRate:      matrix.ModelSampleRate,
		HopSize:         matrix.ModelHopSize,
		MIDIOffset:      0,
		PitchBins:       128,
		BinsPerSemitone: 3,
	}
}

// Grid is a mutable builder for activation matrices.
type Grid struct {
	rows, cols int
	data       []float32
}

func NewGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, data: make([]float32, rows*cols)}
}

// Set stores v at frame t, bin b.
func (g *Grid) Set(t, b int, v float32) *Grid {
	g.data[t*g.cols+b] = v
	return g
}

// Fill stores v in bin b for frames [from, to).
func (g *Grid) Fill(b, from, to int, v float32) *Grid {
	for t := from; t < to; t++ {
		g.Set(t, b, v)
	}
	return g
}

// Matrix freezes the grid. Later changes to g do not affect the result.
func (g *Grid) Matrix() *matrix.Matrix {
	m, err := matrix.New(g.rows, g.cols, g.data)
	if err != nil {
		panic(err)
	}
	return m
}

// Spike describes one isolated note in an activation fixture.
type Spike struct {
	PitchBin int
	Start    int
	Length   int
	Onset    float32
	Frame    float32
	// ContourShift moves the contour peak away from the bin center,
	// in contour bins.
	ContourShift int
}

// Activations builds aligned frame, onset and contour matrices containing
// the given spikes.
func Activations(layout matrix.Layout, frames int, spikes ...Spike) *inference.Activations {
	fr := NewGrid(frames, layout.PitchBins)
	on := NewGrid(frames, layout.PitchBins)
	co := NewGrid(frames, layout.ContourBins())

	for _, s := range spikes {
		fr.Fill(s.PitchBin, s.Start, s.Start+s.Length, s.Frame)
		on.Set(s.Start, s.PitchBin, s.Onset)
		co.Fill(s.PitchBin*layout.BinsPerSemitone+s.ContourShift, s.Start, s.Start+s.Length, s.Frame)
	}

	return &inference.Activations{
		Frames:   fr.Matrix(),
		Onsets:   on.Matrix(),
		Contours: co.Matrix(),
		Layout:   layout,
	}
}
