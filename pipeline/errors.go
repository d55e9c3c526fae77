// SPDX-License-Identifier: EPL-2.0

package pipeline

import "errors"

// ErrCancelled is returned by a run that was reset or replaced by a newer one.
var ErrCancelled = errors.New("conversion cancelled")
