// SPDX-License-Identifier: EPL-2.0

package spectral

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/inference"
	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/utils"
)

const (
	defaultWindowSize = 2048
	defaultOnsetGain  = 2.0

	// magnitudes are compressed as (mag/peak)^gamma
	gamma = 0.5

	// peaks below this are treated as silence
	silenceFloor = 1e-6

	progressSteps = 20
)

// Estimator is a deterministic short-time Fourier estimator that produces
// activations in the same shape as the neural pitch model. Contour bins read
// the magnitude spectrum at their center frequency, frame activations take
// the strongest contour bin around each semitone and onsets are the positive
// frame-to-frame rise.
//
// It has no notion of timbre, so harmonics show up as extra pitches.
type Estimator struct {
	layout     matrix.Layout
	windowSize int
	onsetGain  float64
}

type Option func(*Estimator)

// WithLayout sets the frame/pitch layout. Defaults to matrix.ModelLayout().
func WithLayout(l matrix.Layout) Option {
	return func(e *Estimator) { e.layout = l }
}

// WithWindowSize sets the FFT size in samples.
func WithWindowSize(n int) Option {
	return func(e *Estimator) { e.windowSize = n }
}

// WithOnsetGain scales the frame-to-frame rise before clipping.
func WithOnsetGain(g float64) Option {
	return func(e *Estimator) { e.onsetGain = g }
}

func New(opts ...Option) *Estimator {
	e := &Estimator{
		layout:     matrix.ModelLayout(),
		windowSize: defaultWindowSize,
		onsetGain:  defaultOnsetGain,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout returns the layout of the produced activations.
func (e *Estimator) Layout() matrix.Layout { return e.layout }

// Infer implements inference.Source.
func (e *Estimator) Infer(ctx context.Context, buf *audio.Buffer, progress chan<- float64) (*inference.Activations, error) {
	if err := e.check(buf); err != nil {
		return nil, err
	}

	l := e.layout
	frames := max(l.Frames(len(buf.Data)), 1)
	bins := l.ContourBins()

	fft := fourier.NewFFT(e.windowSize)
	win := window.Hann(ones(e.windowSize))
	seq := make([]float64, e.windowSize)
	coeff := make([]complex128, e.windowSize/2+1)

	// fractional FFT bin of each contour bin
	pos := make([]float64, bins)
	for b := range pos {
		pos[b] = l.Frequency(b) * float64(e.windowSize) / float64(l.SampleRate)
	}

	mags := make([]float64, frames*bins)
	peak := 0.0
	every := max(frames/progressSteps, 1)

	for f := range frames {
		if f%every == 0 {
			if err := inference.Report(ctx, progress, float64(f)/float64(frames)); err != nil {
				return nil, err
			}
		}

		e.frame(buf.Data, f*l.HopSize, win, seq)
		coeff = fft.Coefficients(coeff, seq)

		row := mags[f*bins : (f+1)*bins]
		for b, k := range pos {
			row[b] = magnitudeAt(coeff, k)
			peak = math.Max(peak, row[b])
		}
	}

	acts, err := e.activations(mags, frames, peak)
	if err != nil {
		return nil, err
	}

	if err := inference.Report(ctx, progress, 1); err != nil {
		return nil, err
	}

	return acts, nil
}

func (e *Estimator) check(buf *audio.Buffer) error {
	if err := e.layout.Validate(); err != nil {
		return fmt.Errorf("%w: %w", inference.ErrInference, err)
	}

	if e.windowSize < 2 || e.windowSize%2 != 0 {
		return fmt.Errorf("%w: window size %d", inference.ErrInference, e.windowSize)
	}

	if err := buf.Validate(); err != nil {
		return fmt.Errorf("%w: %w", inference.ErrInference, err)
	}

	if buf.Channels != 1 || buf.SampleRate != e.layout.SampleRate {
		return fmt.Errorf("%w: want mono %d Hz audio, got %d channel(s) at %d Hz",
			inference.ErrInference, e.layout.SampleRate, buf.Channels, buf.SampleRate)
	}

	return nil
}

// frame fills seq with the windowed samples centered on sample center.
func (e *Estimator) frame(data []float32, center int, win, seq []float64) {
	start := center - e.windowSize/2
	for k := range seq {
		i := start + k
		if i < 0 || i >= len(data) {
			seq[k] = 0
			continue
		}
		seq[k] = float64(data[i]) * win[k]
	}
}

func (e *Estimator) activations(mags []float64, frames int, peak float64) (*inference.Activations, error) {
	l := e.layout
	bins := l.ContourBins()
	pitches := l.PitchBins
	step := l.BinsPerSemitone

	contours := make([]float32, len(mags))
	if peak > silenceFloor {
		for i, m := range mags {
			contours[i] = float32(math.Pow(m/peak, gamma))
		}
	}

	notes := make([]float32, frames*pitches)
	for f := range frames {
		row := contours[f*bins : (f+1)*bins]
		for p := range pitches {
			c := p * step
			lo, hi := max(c-step/2, 0), min(c+step/2, bins-1)
			var v float32
			for b := lo; b <= hi; b++ {
				v = max(v, row[b])
			}
			notes[f*pitches+p] = v
		}
	}

	onsets := make([]float32, len(notes))
	for f := range frames {
		for p := range pitches {
			prev := float32(0)
			if f > 0 {
				prev = notes[(f-1)*pitches+p]
			}
			rise := float64(notes[f*pitches+p]-prev) * e.onsetGain
			onsets[f*pitches+p] = float32(utils.Clamp(rise, 0, 1))
		}
	}

	fm, err := matrix.New(frames, pitches, notes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inference.ErrInference, err)
	}
	om, err := matrix.New(frames, pitches, onsets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inference.ErrInference, err)
	}
	cm, err := matrix.New(frames, bins, contours)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inference.ErrInference, err)
	}

	return &inference.Activations{Frames: fm, Onsets: om, Contours: cm, Layout: l}, nil
}

// magnitudeAt linearly interpolates the magnitude spectrum at fractional bin k.
func magnitudeAt(coeff []complex128, k float64) float64 {
	last := len(coeff) - 1
	if k >= float64(last) {
		return cmplx.Abs(coeff[last])
	}

	i := int(k)
	frac := k - float64(i)
	return (1-frac)*cmplx.Abs(coeff[i]) + frac*cmplx.Abs(coeff[i+1])
}

func ones(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1
	}
	return s
}
