// Package matrix implements the dense float64 matrix kernel used by the
// training engine.
//
// A Matrix owns its row-major buffer exclusively. Copying a Matrix value is
// reported by go vet; use Clone for an independent copy. Shape violations in
// the arithmetic operators are programming errors and panic with *ShapeError.
package matrix

import (
	"fmt"
	"strings"
)

// Tolerance is the absolute per-element tolerance used by Equal.
const Tolerance = 0.01

// previewSize bounds the rows and columns rendered by String.
const previewSize = 8

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Matrix is a rows×cols dense matrix stored in row-major order.
//
// Invariant: len(data) == rows*cols.
type Matrix struct {
	noCopy noCopy
	rows   int
	cols   int
	data   []float64
}

// New creates a zero-filled rows×cols matrix.
//
// Example:
//
//	m := matrix.New(2, 3)
//	m.Set(1, 2, 4.5)
func New(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: invalid dimensions %dx%d", rows, cols))
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// FromSlice creates a rows×cols matrix from a flat slice, copying it.
//
// With rowOrder set, values holds consecutive rows; otherwise it holds
// consecutive columns (each item's features contiguous, the layout loaders
// deliver batches in).
//
// Example:
//
//	m := matrix.FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, true)
//	// [[1 2 3]
//	//  [4 5 6]]
func FromSlice(rows, cols int, values []float64, rowOrder bool) *Matrix {
	if len(values) != rows*cols {
		panic(fmt.Sprintf("matrix: %dx%d requires %d values, got %d", rows, cols, rows*cols, len(values)))
	}
	m := New(rows, cols)
	if rowOrder {
		copy(m.data, values)
		return m
	}
	i := 0
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			m.data[row*cols+col] = values[i]
			i++
		}
	}
	return m
}

// Generate creates a rows×cols matrix whose element at linear (row-major)
// index i is f(i).
func Generate(rows, cols int, f func(index int) float64) *Matrix {
	m := New(rows, cols)
	for i := range m.data {
		m.data[i] = f(i)
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// Len returns the number of elements.
func (m *Matrix) Len() int {
	return len(m.data)
}

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) {
	return m.rows, m.cols
}

// At returns the element at (row, col). Indices are not checked beyond what
// the slice access itself does.
func (m *Matrix) At(row, col int) float64 {
	return m.data[row*m.cols+col]
}

// Set stores v at (row, col).
func (m *Matrix) Set(row, col int, v float64) {
	m.data[row*m.cols+col] = v
}

// Data returns the row-major backing slice.
//
// WARNING: the slice aliases the matrix; writes through it modify the matrix.
func (m *Matrix) Data() []float64 {
	return m.data
}

// Clone returns an independent deep copy.
func (m *Matrix) Clone() *Matrix {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Transpose returns a new cols×rows matrix. The receiver is unchanged.
func (m *Matrix) Transpose() *Matrix {
	t := New(m.cols, m.rows)
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			t.data[col*m.rows+row] = m.data[row*m.cols+col]
		}
	}
	return t
}

// Modify replaces every element with f(row, col, index, value), traversing
// in row-major order. Returns the receiver for chaining.
func (m *Matrix) Modify(f func(row, col, index int, value float64) float64) *Matrix {
	index := 0
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			m.data[index] = f(row, col, index, m.data[index])
			index++
		}
	}
	return m
}

// Apply is the non-mutating form of Modify.
func (m *Matrix) Apply(f func(row, col, index int, value float64) float64) *Matrix {
	return m.Clone().Modify(f)
}

// ForEach calls f for every element in row-major order.
func (m *Matrix) ForEach(f func(row, col, index int, value float64)) {
	index := 0
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			f(row, col, index, m.data[index])
			index++
		}
	}
}

// String renders at most an 8×8 preview of the matrix.
func (m *Matrix) String() string {
	var sb strings.Builder

	rows := min(m.rows, previewSize)
	cols := min(m.cols, previewSize)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if col > 0 {
				sb.WriteString("  ")
			}
			fmt.Fprintf(&sb, "%+.5f", m.At(row, col))
		}
		sb.WriteByte('\n')
	}
	if rows < m.rows || cols < m.cols {
		fmt.Fprintf(&sb, "(showing %dx%d of %dx%d)\n", rows, cols, m.rows, m.cols)
	}
	return sb.String()
}
