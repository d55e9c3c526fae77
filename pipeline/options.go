// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"log/slog"

	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/midifile"
	"github.com/chromahubz/midify/notes"
)

type Option func(*Converter)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithObserver registers a state observer.
func WithObserver(o Observer) Option {
	return func(c *Converter) { c.observer = o }
}

// WithSampleRate sets the rate audio is normalized to before inference.
// Defaults to the model rate.
func WithSampleRate(rate int) Option {
	return func(c *Converter) { c.sampleRate = rate }
}

func WithDecodeOptions(o notes.DecodeOptions) Option {
	return func(c *Converter) { c.decode = o }
}

func WithBendOptions(o notes.BendOptions) Option {
	return func(c *Converter) { c.bends = o }
}

func WithMIDIOptions(o midifile.Options) Option {
	return func(c *Converter) { c.midi = o }
}

func defaults(c *Converter) {
	c.logger = slog.Default()
	c.sampleRate = matrix.ModelSampleRate
	c.decode = notes.DefaultDecodeOptions()
	c.bends = notes.DefaultBendOptions()
	c.midi = midifile.DefaultOptions()
}
