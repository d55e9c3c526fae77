// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Sinc returns the normalized sinc function sin(pi*x)/(pi*x).
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// Blackman evaluates a Blackman window stretched over t in [-1, 1].
// Values outside that range are zero.
func Blackman(t float64) float64 {
	if t < -1 || t > 1 {
		return 0
	}
	return 0.42 + 0.5*math.Cos(math.Pi*t) + 0.08*math.Cos(2*math.Pi*t)
}

// LowpassTap is one tap of a windowed-sinc low-pass filter.
// cutoff is relative to the source Nyquist (0 < cutoff <= 1), x is the
// distance in source samples from the interpolation point and half is
// the one-sided filter width in samples.
func LowpassTap(x, cutoff float64, half int) float64 {
	return cutoff * Sinc(cutoff*x) * Blackman(x/float64(half))
}

// Gaussian returns exp(-0.5*(x/std)^2).
func Gaussian(x, std float64) float64 {
	if std <= 0 {
		if x == 0 {
			return 1
		}
		return 0
	}
	r := x / std
	return math.Exp(-0.5 * r * r)
}
