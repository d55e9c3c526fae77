// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is converted to float32 samples in
// [-1, 1]. go-audio needs an io.ReadSeeker; other readers are buffered in
// memory first.
//
//	f, _ := os.Open("take.aif")
//	buf, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not an AIFF file
//	}
package aiff
