package matrix

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// RowSums returns a rows×1 matrix holding the sum of each row.
func (m *Matrix) RowSums() *Matrix {
	result := New(m.rows, 1)
	for row := 0; row < m.rows; row++ {
		result.data[row] = floats.Sum(m.data[row*m.cols : (row+1)*m.cols])
	}
	return result
}

// RowMeans returns a rows×1 matrix holding the mean of each row.
// A matrix with no columns yields zeros.
func (m *Matrix) RowMeans() *Matrix {
	result := m.RowSums()
	if m.cols > 0 {
		floats.Scale(1/float64(m.cols), result.data)
	}
	return result
}

// ColSums returns a 1×cols matrix holding the sum of each column.
func (m *Matrix) ColSums() *Matrix {
	result := New(1, m.cols)
	for row := 0; row < m.rows; row++ {
		floats.Add(result.data, m.data[row*m.cols:(row+1)*m.cols])
	}
	return result
}

// LargestRowIndexes returns, for each column, the row holding the largest
// value. Ties resolve to the earliest row.
func (m *Matrix) LargestRowIndexes() []int {
	result := make([]int, m.cols)
	if m.rows == 0 {
		return result
	}
	for col := 0; col < m.cols; col++ {
		best := m.data[col]
		for row := 1; row < m.rows; row++ {
			if v := m.data[row*m.cols+col]; v > best {
				best = v
				result[col] = row
			}
		}
	}
	return result
}

// Sum returns the total of all elements.
func (m *Matrix) Sum() float64 {
	return floats.Sum(m.data)
}

// Equal reports whether m and o have the same shape and every pair of
// elements differs by at most Tolerance.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if !scalar.EqualWithinAbs(v, o.data[i], Tolerance) {
			return false
		}
	}
	return true
}
