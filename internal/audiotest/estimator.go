// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"context"
	"sync"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/inference"
)

// StaticEstimator returns fixed activations after reporting Steps evenly
// spaced progress values.
type StaticEstimator struct {
	Acts  *inference.Activations
	Err   error
	Steps int
}

func (s *StaticEstimator) Infer(ctx context.Context, _ *audio.Buffer, progress chan<- float64) (*inference.Activations, error) {
	for i := 1; i <= s.Steps; i++ {
		if err := inference.Report(ctx, progress, float64(i)/float64(s.Steps)); err != nil {
			return nil, err
		}
	}

	if s.Err != nil {
		return nil, s.Err
	}

	return s.Acts, nil
}

// BlockingEstimator reports half progress, signals Started and then waits
// for Release or cancellation.
type BlockingEstimator struct {
	Acts *inference.Activations

	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func NewBlockingEstimator(acts *inference.Activations) *BlockingEstimator {
	return &BlockingEstimator{
		Acts:    acts,
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

// Started delivers one value per Infer call that reached the blocking point.
func (b *BlockingEstimator) Started() <-chan struct{} { return b.started }

// Release unblocks every current and future Infer call.
func (b *BlockingEstimator) Release() {
	b.once.Do(func() { close(b.release) })
}

func (b *BlockingEstimator) Infer(ctx context.Context, _ *audio.Buffer, progress chan<- float64) (*inference.Activations, error) {
	if err := inference.Report(ctx, progress, 0.5); err != nil {
		return nil, err
	}

	b.started <- struct{}{}

	select {
	case <-b.release:
		return b.Acts, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
