// SPDX-License-Identifier: EPL-2.0

// Package notes turns pitch activations into notes.
//
// Decoding runs in three steps:
//
//	raw, err := notes.Decode(acts.Frames, acts.Onsets, notes.DefaultDecodeOptions())
//	events, err := notes.ToEvents(raw, acts.Layout)
//	err = notes.AddPitchBends(events, raw, acts.Contours, acts.Layout, notes.DefaultBendOptions())
//
// Decode works on matrix coordinates and is independent per pitch bin, so
// notes on different pitches may overlap freely while notes on the same bin
// never do. ToEvents applies the layout's frame timing and MIDI offset.
// AddPitchBends reads sub-semitone deviation from the contour matrix.
//
// Activations that do not fit together are reported as ErrDecoding.
package notes
