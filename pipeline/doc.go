// SPDX-License-Identifier: EPL-2.0

// Package pipeline sequences a full audio-to-MIDI conversion and tracks its
// progress.
//
// A conversion moves through Idle, Loading, Processing and finally Complete
// or Failed:
//
//	Loading     10  Loading audio...
//	            20  Converting to mono and resampling...
//	            30  Audio normalized
//	Processing  40  Running pitch detection...
//	         40-85  Analyzing audio: N%
//	            85  Converting to MIDI notes...
//	            88  Adding pitch bends...
//	            90  Generating MIDI file...
//	Complete   100  Conversion complete! N notes detected.
//
// A failure keeps the last percentage and records "Conversion failed:"
// followed by the cause.
//
// Only one conversion is live per Converter. Start cancels the previous run
// and Reset cancels it and returns to Idle; updates from a cancelled run are
// dropped by comparing it against the current run before they are applied.
//
//	conv := pipeline.New(spectral.New(), pipeline.WithObserver(func(s pipeline.State) {
//	    fmt.Printf("%3d%% %s\n", s.Percent, s.Message)
//	}))
//	res, err := conv.Convert(ctx, src)
package pipeline
