// SPDX-License-Identifier: EPL-2.0

package matrix

import "fmt"

// Matrix is an immutable frames x bins grid of activations, stored row-major.
// Row t holds the activations of time frame t.
type Matrix struct {
	rows int
	cols int
	data []float32
}

// New copies data into a rows x cols matrix.
func New(rows, cols int, data []float32) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}

	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrShape, len(data), rows, cols)
	}

	m := &Matrix{rows: rows, cols: cols, data: make([]float32, len(data))}
	copy(m.data, data)

	return m, nil
}

// FromRows builds a matrix from equally long rows.
func FromRows(rows [][]float32) (*Matrix, error) {
	if len(rows) == 0 {
		return &Matrix{}, nil
	}

	cols := len(rows[0])
	data := make([]float32, 0, len(rows)*cols)
	for t, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, t, len(row), cols)
		}
		data = append(data, row...)
	}

	return &Matrix{rows: len(rows), cols: cols, data: data}, nil
}

// Rows is the number of time frames.
func (m *Matrix) Rows() int { return m.rows }

// Cols is the number of bins per frame.
func (m *Matrix) Cols() int { return m.cols }

// At returns the activation of bin b at frame t.
func (m *Matrix) At(t, b int) float32 {
	return m.data[t*m.cols+b]
}

// Row returns a copy of frame t.
func (m *Matrix) Row(t int) []float32 {
	out := make([]float32, m.cols)
	copy(out, m.data[t*m.cols:(t+1)*m.cols])
	return out
}

// Column returns a copy of bin b across all frames.
func (m *Matrix) Column(b int) []float32 {
	out := make([]float32, m.rows)
	for t := range m.rows {
		out[t] = m.data[t*m.cols+b]
	}
	return out
}

// SameShape reports whether m and o have identical dimensions.
func (m *Matrix) SameShape(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// Max returns the largest activation, or 0 for an empty matrix.
func (m *Matrix) Max() float32 {
	var peak float32
	for i, v := range m.data {
		if i == 0 || v > peak {
			peak = v
		}
	}
	return peak
}
