// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnsupportedAudio reports an input buffer that cannot be normalized:
	// no channels, no samples or a non-positive sample rate.
	ErrUnsupportedAudio = errors.New("unsupported audio")
)
