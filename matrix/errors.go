// SPDX-License-Identifier: EPL-2.0

package matrix

import "errors"

var (
	ErrShape  = errors.New("matrix shape mismatch")
	ErrLayout = errors.New("invalid frame layout")
)
