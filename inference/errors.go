// SPDX-License-Identifier: EPL-2.0

package inference

import "errors"

var ErrInference = errors.New("pitch inference failed")
