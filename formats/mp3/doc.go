// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so sources from this package report
// two channels even for mono files. Use audio.Normalize or audio.MonoMixer
// to fold them:
//
//	buf, err := mp3.Decoder{}.Decode(f)
//	mono, err := audio.Normalize(buf, 22050)
//
// Decoding only; there is no encoder.
package mp3
