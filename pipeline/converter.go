// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/inference"
	"github.com/chromahubz/midify/midifile"
	"github.com/chromahubz/midify/notes"
)

// Converter runs audio-to-MIDI conversions, one at a time. Starting a new
// conversion cancels the previous one and discards its output.
type Converter struct {
	estimator inference.Source

	logger     *slog.Logger
	observer   Observer
	sampleRate int
	decode     notes.DecodeOptions
	bends      notes.BendOptions
	midi       midifile.Options

	// notifyMu serializes transitions with their observer calls. It is
	// always taken before mu.
	notifyMu sync.Mutex

	mu      sync.Mutex
	state   State
	current *Run
	result  *Result
}

// Run is a handle on one conversion.
type Run struct {
	id     uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}

	res *Result
	err error
}

// ID returns the run identity reported in State.Run.
func (r *Run) ID() uuid.UUID { return r.id }

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes or ctx is done. A run that was reset or
// replaced returns an error wrapping ErrCancelled.
func (r *Run) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-r.done:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func New(estimator inference.Source, opts ...Option) *Converter {
	c := &Converter{estimator: estimator}
	defaults(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Converter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the output of the last completed conversion, or nil.
func (c *Converter) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Start begins converting src in the background and returns immediately.
// src is closed once it has been read or the run fails.
func (c *Converter) Start(ctx context.Context, src audio.Source) *Run {
	runCtx, cancel := context.WithCancel(ctx)
	r := &Run{id: uuid.New(), cancel: cancel, done: make(chan struct{})}

	c.notifyMu.Lock()
	c.mu.Lock()
	prev := c.current
	c.current = r
	c.result = nil
	c.state = State{Stage: Idle, Run: r.id}
	c.mu.Unlock()
	c.notifyMu.Unlock()

	if prev != nil {
		prev.cancel()
		c.logger.Debug("conversion replaced", "run", prev.id, "next", r.id)
	}

	go c.run(runCtx, r, src)

	return r
}

// Convert runs a conversion and waits for it.
func (c *Converter) Convert(ctx context.Context, src audio.Source) (*Result, error) {
	return c.Start(ctx, src).Wait(ctx)
}

// Reset cancels any conversion in flight, drops the retained result and
// returns to Idle. No state change of the cancelled run is observable once
// Reset returns.
func (c *Converter) Reset() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	prev := c.current
	c.current = nil
	c.result = nil
	c.state = State{}
	st := c.state
	c.mu.Unlock()

	if prev != nil {
		prev.cancel()
		c.logger.Debug("conversion reset", "run", prev.id)
	}

	if c.observer != nil {
		c.observer(st)
	}
}

func (c *Converter) run(ctx context.Context, r *Run, src audio.Source) {
	defer close(r.done)
	defer r.cancel()

	res, err := c.convert(ctx, r, src)
	c.finish(r, res, err)
}

func (c *Converter) convert(ctx context.Context, r *Run, src audio.Source) (*Result, error) {
	closed := false
	release := func() {
		if closed {
			return
		}
		closed = true
		if err := src.Close(); err != nil {
			c.logger.Debug("closing audio source", "run", r.id, "error", err)
		}
	}
	defer release()

	c.report(r, Loading, 10, "Loading audio...")
	buf, err := audio.ReadAll(src)
	release()
	if err != nil {
		return nil, fmt.Errorf("loading audio: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.report(r, Loading, 20, "Converting to mono and resampling...")
	mono, err := audio.Normalize(buf, c.sampleRate)
	if err != nil {
		return nil, err
	}
	c.report(r, Loading, 30, "Audio normalized")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.report(r, Processing, 40, "Running pitch detection...")
	acts, err := c.infer(ctx, r, mono)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.report(r, Processing, 85, "Converting to MIDI notes...")
	if err := notes.Validate(acts.Frames, acts.Onsets, acts.Contours, acts.Layout); err != nil {
		return nil, err
	}

	raw, err := notes.Decode(acts.Frames, acts.Onsets, c.decode)
	if err != nil {
		return nil, err
	}

	events, err := notes.ToEvents(raw, acts.Layout)
	if err != nil {
		return nil, err
	}

	c.report(r, Processing, 88, "Adding pitch bends...")
	if err := notes.AddPitchBends(events, raw, acts.Contours, acts.Layout, c.bends); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.report(r, Processing, 90, "Generating MIDI file...")
	data, err := midifile.Encode(events, c.midi)
	if err != nil {
		return nil, err
	}

	return &Result{Notes: events, MIDI: data, Size: len(data)}, nil
}

// infer runs the estimator and maps its progress into the 40-85% band.
func (c *Converter) infer(ctx context.Context, r *Run, mono *audio.Buffer) (*inference.Activations, error) {
	progress := make(chan float64)
	relayed := make(chan struct{})

	go func() {
		defer close(relayed)
		for p := range progress {
			c.report(r, Processing, 40+int(math.Floor(p*45)), fmt.Sprintf("Analyzing audio: %d%%", int(math.Floor(p*100))))
		}
	}()

	acts, err := inference.Run(ctx, c.estimator, mono, progress)
	close(progress)
	<-relayed

	return acts, err
}

// report applies a progress update if r is still the current run. Percent
// never decreases within a run.
func (c *Converter) report(r *Run, stage Stage, percent int, msg string) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.current != r {
		c.mu.Unlock()
		return false
	}

	prev := c.state.Stage
	c.state = State{Stage: stage, Percent: max(percent, c.state.Percent), Message: msg, Run: r.id}
	st := c.state
	c.mu.Unlock()

	if stage != prev {
		c.logger.Debug("conversion stage", "run", r.id, "stage", stage, "percent", st.Percent)
	}

	if c.observer != nil {
		c.observer(st)
	}

	return true
}

// finish records the outcome of r. Runs that are no longer current only
// learn that they were cancelled.
func (c *Converter) finish(r *Run, res *Result, err error) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.current != r {
		c.mu.Unlock()
		r.err = ErrCancelled
		if err != nil && !errors.Is(err, context.Canceled) {
			r.err = fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		c.logger.Debug("conversion cancelled", "run", r.id)
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		c.state = State{
			Stage:   Failed,
			Percent: c.state.Percent,
			Message: "Conversion failed: " + err.Error(),
			Run:     r.id,
		}
	} else {
		c.result = res
		c.state = State{
			Stage:   Complete,
			Percent: 100,
			Message: fmt.Sprintf("Conversion complete! %d notes detected.", len(res.Notes)),
			Run:     r.id,
		}
	}
	st := c.state
	c.mu.Unlock()

	r.res, r.err = res, err

	switch {
	case err == nil:
		c.logger.Info("conversion complete", "run", r.id, "notes", len(res.Notes), "bytes", res.Size)
	case errors.Is(err, notes.ErrDecoding):
		c.logger.Error("conversion failed", "run", r.id, "error", err, "defect", true)
	default:
		c.logger.Warn("conversion failed", "run", r.id, "error", err)
	}

	if c.observer != nil {
		c.observer(st)
	}
}
