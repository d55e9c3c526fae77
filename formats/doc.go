// SPDX-License-Identifier: EPL-2.0

// Package formats ties the container decoders together.
//
// Sniff detects the format of an input from its magic bytes, falling back
// to the file extension:
//
//	f, _ := os.Open(path)
//	format, r, err := formats.Sniff(f, path)
//	src, err := formats.Open(format, r)
//
// NewRegistry returns an audio.Registry with every decoder registered for
// callers that want the whole file in memory.
package formats
