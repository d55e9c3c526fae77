// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// The library already yields float32 samples, so the source only clamps
// them to [-1, 1]. Any channel count is passed through unchanged.
package vorbis
