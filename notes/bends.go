// SPDX-License-Identifier: EPL-2.0

package notes

import (
	"fmt"
	"math"

	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/utils"
)

// BendPoint is one pitch-bend sample of a note.
type BendPoint struct {
	// Offset is the time since the note start in seconds.
	Offset float64
	// Semitones is the deviation from the nominal pitch.
	Semitones float64
}

type BendOptions struct {
	// Tolerance is how many contour bins either side of the nominal pitch
	// are searched.
	Tolerance int
	// GaussianStd, in contour bins, weights the search toward the nominal
	// pitch. Zero disables the weighting.
	GaussianStd float64
	// Epsilon is the largest deviation, in semitones, treated as no bend.
	Epsilon float64
}

func DefaultBendOptions() BendOptions {
	return BendOptions{
		Tolerance:   25,
		GaussianStd: 5,
		Epsilon:     1e-3,
	}
}

func (o BendOptions) Validate() error {
	switch {
	case o.Tolerance < 0:
		return fmt.Errorf("%w: bend tolerance %d", ErrInvalidOptions, o.Tolerance)
	case o.GaussianStd < 0:
		return fmt.Errorf("%w: gaussian std %g", ErrInvalidOptions, o.GaussianStd)
	case o.Epsilon < 0:
		return fmt.Errorf("%w: bend epsilon %g", ErrInvalidOptions, o.Epsilon)
	}
	return nil
}

// AttachBends samples the pitch deviation of note from the contour matrix,
// one point per frame of the note. Each frame's deviation is the offset of
// the strongest weighted contour bin from the note's center bin, in
// semitones. The curve is nil when no frame deviates by more than
// opts.Epsilon.
func AttachBends(note RawNote, contours *matrix.Matrix, layout matrix.Layout, opts BendOptions) ([]BendPoint, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if contours == nil {
		return nil, fmt.Errorf("%w: missing contour matrix", ErrDecoding)
	}

	if note.StartFrame < 0 || note.EndFrame > contours.Rows() || note.Frames() <= 0 {
		return nil, fmt.Errorf("%w: note frames %d..%d outside %d contour frames", ErrDecoding,
			note.StartFrame, note.EndFrame, contours.Rows())
	}

	step := layout.BinsPerSemitone
	center := note.PitchBin * step
	if step <= 0 || center < 0 || center >= contours.Cols() {
		return nil, fmt.Errorf("%w: pitch bin %d has no contour bin", ErrDecoding, note.PitchBin)
	}

	lo := max(center-opts.Tolerance, 0)
	hi := min(center+opts.Tolerance, contours.Cols()-1)

	weights := make([]float64, hi-lo+1)
	for i := range weights {
		weights[i] = 1
		if opts.GaussianStd > 0 {
			weights[i] = utils.Gaussian(float64(lo+i-center), opts.GaussianStd)
		}
	}

	start := layout.FrameTime(note.StartFrame)
	curve := make([]BendPoint, 0, note.Frames())
	bent := false

	for t := note.StartFrame; t < note.EndFrame; t++ {
		peak := strongest(contours, t, lo, center, weights)
		dev := float64(peak-center) / float64(step)
		if math.Abs(dev) > opts.Epsilon {
			bent = true
		}

		curve = append(curve, BendPoint{
			Offset:    layout.FrameTime(t) - start,
			Semitones: dev,
		})
	}

	if !bent {
		return nil, nil
	}

	return curve, nil
}

// strongest returns the contour bin with the highest weighted activation in
// frame t. Ties go to the bin closest to center, then to the lower bin; a
// frame without energy reports center.
func strongest(contours *matrix.Matrix, t, lo, center int, weights []float64) int {
	best, bestVal := center, 0.0
	for i, w := range weights {
		b := lo + i
		v := w * float64(contours.At(t, b))
		if v <= 0 {
			continue
		}

		switch {
		case v > bestVal:
			best, bestVal = b, v
		case v == bestVal && closer(b, best, center):
			best = b
		}
	}
	return best
}

func closer(a, b, center int) bool {
	da, db := abs(a-center), abs(b-center)
	if da != db {
		return da < db
	}
	return a < b
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
