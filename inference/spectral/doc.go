// SPDX-License-Identifier: EPL-2.0

// Package spectral implements inference.Source with a short-time Fourier
// transform. It needs no model runtime, which makes it useful for the
// command line tool, for tests and as a baseline, but it is far less
// accurate than a trained polyphonic model.
package spectral
