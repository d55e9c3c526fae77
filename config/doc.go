// SPDX-License-Identifier: EPL-2.0

// Package config loads and saves the transcription settings as JSON.
//
// The file lives at $XDG_CONFIG_HOME/midify/config.json (or the platform
// equivalent). Every key is optional:
//
//	{
//	  "audio":  {"sampleRate": 22050},
//	  "decode": {"onsetThreshold": 0.25, "frameThreshold": 0.25, "minNoteFrames": 5},
//	  "bends":  {"tolerance": 25, "gaussianStd": 5, "epsilon": 0.001},
//	  "midi":   {"ticksPerQuarter": 480, "tempo": 120, "channel": 0,
//	             "bendRange": 2, "defaultVelocity": 0.8}
//	}
package config
