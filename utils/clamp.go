// SPDX-License-Identifier: EPL-2.0

package utils

import "golang.org/x/exp/constraints"

// Clamp limits v to the closed range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Float32ToPCM converts a sample in [-1, 1] to a signed integer sample of
// the given bit depth. Out of range input is clamped.
func Float32ToPCM(x float32, bitDepth int) int {
	x = Clamp(x, -1, 1)
	full := float64(int64(1) << (bitDepth - 1))
	if x < 0 {
		return int(float64(x) * full)
	}
	return int(float64(x) * (full - 1))
}

// PCMToFloat32 is the inverse of Float32ToPCM.
func PCMToFloat32(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
