// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrNotOggVorbis wraps oggvorbis errors raised while reading the headers.
var ErrNotOggVorbis = errors.New("not an Ogg Vorbis stream")
