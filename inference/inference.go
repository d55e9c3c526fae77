// SPDX-License-Identifier: EPL-2.0

package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/utils"
)

// Activations is the output of a pitch estimator for one buffer.
// All three matrices share the same frame count. Frames and Onsets have
// Layout.PitchBins columns, Contours has Layout.ContourBins().
type Activations struct {
	Frames   *matrix.Matrix
	Onsets   *matrix.Matrix
	Contours *matrix.Matrix
	Layout   matrix.Layout
}

// Source estimates pitch activations from mono audio at the rate its layout
// expects.
//
// Infer may send fractional progress in [0,1] on progress, which may be nil.
// It must not send after it returns and must not close the channel.
type Source interface {
	Infer(ctx context.Context, buf *audio.Buffer, progress chan<- float64) (*Activations, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, buf *audio.Buffer, progress chan<- float64) (*Activations, error)

func (f SourceFunc) Infer(ctx context.Context, buf *audio.Buffer, progress chan<- float64) (*Activations, error) {
	return f(ctx, buf, progress)
}

// Report sends p, clamped to [0,1], unless ctx is done first.
// A nil channel is ignored.
func Report(ctx context.Context, progress chan<- float64, p float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if progress == nil {
		return nil
	}

	select {
	case progress <- utils.Clamp(p, 0, 1):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run calls src and wraps any failure that is not a cancellation in
// ErrInference, keeping the estimator's own message.
func Run(ctx context.Context, src Source, buf *audio.Buffer, progress chan<- float64) (*Activations, error) {
	acts, err := src.Infer(ctx, buf, progress)
	switch {
	case err == nil && acts == nil:
		return nil, fmt.Errorf("%w: estimator returned no activations", ErrInference)
	case err == nil:
		return acts, nil
	case errors.Is(err, ErrInference),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}
}
