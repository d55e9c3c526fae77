// SPDX-License-Identifier: EPL-2.0

// Package midify transcribes recorded audio into a Standard MIDI File.
//
// A conversion runs in stages, each in its own package:
//
//   - formats: sniff and decode WAV, AIFF, Ogg Vorbis and MP3 input
//   - audio: fold to mono and resample to the model rate
//   - inference: produce per-frame pitch, onset and contour activations
//   - notes: segment activations into notes and attach pitch bends
//   - midifile: write the notes as a format 0 MIDI file
//   - pipeline: run the stages with progress reporting and cancellation
//
// # Quick Start
//
// Transcribe runs the whole chain with the built-in spectral estimator:
//
//	f, _ := os.Open("take.wav")
//	res, err := midify.Transcribe(ctx, f, "", nil)
//	if err != nil {
//	    // Handle error
//	}
//	os.WriteFile("take.mid", res.MIDI, 0o644)
//
// For progress reporting or a different estimator, build a pipeline.Converter
// directly, or start from NewConverter and pass extra pipeline options:
//
//	conv, _ := midify.NewConverter(cfg, pipeline.WithObserver(func(s pipeline.State) {
//	    fmt.Printf("%3d%% %s\n", s.Percent, s.Message)
//	}))
//	run := conv.Start(ctx, src)
//	res, err := run.Wait(ctx)
//
// # Configuration
//
// Thresholds, bend extraction and MIDI output settings live in config.Config,
// stored as JSON under the user config directory.
package midify
