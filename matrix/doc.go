// SPDX-License-Identifier: EPL-2.0

// Package matrix holds the activation grids a pitch model produces and the
// layout that maps their rows to time and their columns to pitch.
//
// A Matrix is read-only once built. Constructors copy their input, so a
// producer can keep reusing its own scratch buffers.
package matrix
