// SPDX-License-Identifier: EPL-2.0

package midifile

import "errors"

var (
	ErrSerialization = errors.New("midi serialization failed")
	ErrInvalidFile   = errors.New("invalid midi file")
)
