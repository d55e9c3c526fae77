// SPDX-License-Identifier: EPL-2.0

// Package midifile writes transcribed notes as a Standard MIDI File and reads
// them back.
//
// Files have a single track on one channel. Note times are seconds; the
// configured tempo and resolution only decide how they are quantized to
// ticks, so a round trip keeps every note on and off within one tick.
//
//	data, err := midifile.Encode(events, midifile.DefaultOptions())
//
// Pitch bends are written between a note's on and off and reset to center
// right after the off. A bend range other than the General MIDI default of
// two semitones is announced with an RPN at the start of the track.
package midifile
