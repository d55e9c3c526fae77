// SPDX-License-Identifier: EPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromahubz/midify/matrix"
	"github.com/chromahubz/midify/midifile"
	"github.com/chromahubz/midify/notes"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// AudioConfig controls normalization.
type AudioConfig struct {
	SampleRate int `json:"sampleRate"`
}

// DecodeConfig controls note segmentation.
type DecodeConfig struct {
	OnsetThreshold float64 `json:"onsetThreshold"`
	FrameThreshold float64 `json:"frameThreshold"`
	MinNoteFrames  int     `json:"minNoteFrames"`
}

// BendConfig controls pitch-bend extraction.
type BendConfig struct {
	Tolerance   int     `json:"tolerance"`
	GaussianStd float64 `json:"gaussianStd"`
	Epsilon     float64 `json:"epsilon"`
}

// MIDIConfig controls the written file.
type MIDIConfig struct {
	TicksPerQuarter int     `json:"ticksPerQuarter"`
	Tempo           float64 `json:"tempo"`
	Channel         int     `json:"channel"`
	BendRange       float64 `json:"bendRange"`
	DefaultVelocity float64 `json:"defaultVelocity"`
	TrackName       string  `json:"trackName,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Audio  AudioConfig  `json:"audio"`
	Decode DecodeConfig `json:"decode"`
	Bends  BendConfig   `json:"bends"`
	MIDI   MIDIConfig   `json:"midi"`
}

// Default returns the settings the transcription model is tuned for.
func Default() *Config {
	d := notes.DefaultDecodeOptions()
	b := notes.DefaultBendOptions()
	m := midifile.DefaultOptions()

	return &Config{
		Audio: AudioConfig{SampleRate: matrix.ModelSampleRate},
		Decode: DecodeConfig{
			OnsetThreshold: d.OnsetThreshold,
			FrameThreshold: d.FrameThreshold,
			MinNoteFrames:  d.MinNoteFrames,
		},
		Bends: BendConfig{
			Tolerance:   b.Tolerance,
			GaussianStd: b.GaussianStd,
			Epsilon:     b.Epsilon,
		},
		MIDI: MIDIConfig{
			TicksPerQuarter: m.TicksPerQuarter,
			Tempo:           m.Tempo,
			Channel:         int(m.Channel),
			BendRange:       m.BendRange,
			DefaultVelocity: m.DefaultVelocity,
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "midify", "config.json"), nil
}

// Load reads the config at path, or at Path() when path is empty. A missing
// file yields the defaults, and keys absent from the file keep their default
// values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to path, or to Path() when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.Audio.SampleRate)
	}

	if c.MIDI.Channel < 0 || c.MIDI.Channel > 15 {
		return fmt.Errorf("%w: midi channel %d", ErrInvalidConfig, c.MIDI.Channel)
	}

	if err := c.DecodeOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := c.BendOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := c.MIDIOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c *Config) DecodeOptions() notes.DecodeOptions {
	return notes.DecodeOptions{
		OnsetThreshold: c.Decode.OnsetThreshold,
		FrameThreshold: c.Decode.FrameThreshold,
		MinNoteFrames:  c.Decode.MinNoteFrames,
	}
}

func (c *Config) BendOptions() notes.BendOptions {
	return notes.BendOptions{
		Tolerance:   c.Bends.Tolerance,
		GaussianStd: c.Bends.GaussianStd,
		Epsilon:     c.Bends.Epsilon,
	}
}

func (c *Config) MIDIOptions() midifile.Options {
	return midifile.Options{
		TicksPerQuarter: c.MIDI.TicksPerQuarter,
		Tempo:           c.MIDI.Tempo,
		Channel:         uint8(c.MIDI.Channel),
		BendRange:       c.MIDI.BendRange,
		DefaultVelocity: c.MIDI.DefaultVelocity,
		TrackName:       c.MIDI.TrackName,
	}
}
