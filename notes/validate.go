// SPDX-License-Identifier: EPL-2.0

package notes

import (
	"fmt"
	"math"

	"github.com/chromahubz/midify/matrix"
)

// Validate checks that three activation matrices fit together and match
// layout: frames and onsets share a shape with layout.PitchBins columns,
// contours has the same rows and layout.ContourBins() columns, and every
// value is finite.
func Validate(frames, onsets, contours *matrix.Matrix, layout matrix.Layout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrDecoding, err)
	}

	if err := checkPair(frames, onsets); err != nil {
		return err
	}

	if frames.Cols() != layout.PitchBins {
		return fmt.Errorf("%w: %d pitch bins, layout has %d", ErrDecoding, frames.Cols(), layout.PitchBins)
	}

	if contours == nil {
		return fmt.Errorf("%w: missing contour matrix", ErrDecoding)
	}

	if contours.Rows() != frames.Rows() || contours.Cols() != layout.ContourBins() {
		return fmt.Errorf("%w: contours are %dx%d, want %dx%d", ErrDecoding,
			contours.Rows(), contours.Cols(), frames.Rows(), layout.ContourBins())
	}

	return finite("contours", contours)
}

func checkPair(frames, onsets *matrix.Matrix) error {
	if frames == nil || onsets == nil {
		return fmt.Errorf("%w: missing frame or onset matrix", ErrDecoding)
	}

	if !frames.SameShape(onsets) {
		return fmt.Errorf("%w: frames are %dx%d, onsets %dx%d", ErrDecoding,
			frames.Rows(), frames.Cols(), onsets.Rows(), onsets.Cols())
	}

	if err := finite("frames", frames); err != nil {
		return err
	}

	return finite("onsets", onsets)
}

func finite(name string, m *matrix.Matrix) error {
	for t := range m.Rows() {
		for b := range m.Cols() {
			v := float64(m.At(t, b))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d][%d] is %v", ErrDecoding, name, t, b, v)
			}
		}
	}
	return nil
}
