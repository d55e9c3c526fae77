// SPDX-License-Identifier: EPL-2.0

package midify

import (
	"context"
	"fmt"
	"io"

	"github.com/chromahubz/midify/config"
	"github.com/chromahubz/midify/formats"
	"github.com/chromahubz/midify/inference/spectral"
	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/pipeline"
)

// NewConverter builds a Converter from cfg using the built-in spectral
// estimator. A nil cfg means config.Default(). Extra options are applied
// after the ones derived from cfg.
func NewConverter(cfg *config.Config, opts ...pipeline.Option) (*pipeline.Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout := matrix.ModelLayout()
	if cfg.Audio.SampleRate != layout.SampleRate {
		// the window correction only applies to the model's own framing
		layout.SampleRate = cfg.Audio.SampleRate
		layout.WindowFrames, layout.WindowOffset = 0, 0
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	base := []pipeline.Option{
		pipeline.WithSampleRate(cfg.Audio.SampleRate),
		pipeline.WithDecodeOptions(cfg.DecodeOptions()),
		pipeline.WithBendOptions(cfg.BendOptions()),
		pipeline.WithMIDIOptions(cfg.MIDIOptions()),
	}

	est := spectral.New(spectral.WithLayout(layout))

	return pipeline.New(est, append(base, opts...)...), nil
}

// Transcribe decodes r and converts it to MIDI in one call. An empty format
// is detected from the stream header.
func Transcribe(ctx context.Context, r io.Reader, format string, cfg *config.Config) (*pipeline.Result, error) {
	conv, err := NewConverter(cfg)
	if err != nil {
		return nil, err
	}

	if format == "" {
		if format, r, err = formats.Sniff(r, ""); err != nil {
			return nil, err
		}
	}

	src, err := formats.Open(format, r)
	if err != nil {
		return nil, err
	}

	return conv.Convert(ctx, src)
}
