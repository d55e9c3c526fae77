// SPDX-License-Identifier: EPL-2.0

package notes

import "errors"

var (
	// ErrDecoding reports activations that break the contract between the
	// estimator and the decoder. It indicates a bug, not bad input audio.
	ErrDecoding = errors.New("note decoding contract violated")

	ErrInvalidOptions = errors.New("invalid decoder options")
)
