package matrix

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/densenet/internal/parallel"
)

// ErrShapeMismatch is the sentinel wrapped by every *ShapeError.
var ErrShapeMismatch = errors.New("matrix: shape mismatch")

// ShapeError reports the operands of an operation whose shapes are incompatible.
type ShapeError struct {
	Op          string
	Left, Right [2]int // rows, cols
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("matrix: %s: incompatible shapes %dx%d and %dx%d",
		e.Op, e.Left[0], e.Left[1], e.Right[0], e.Right[1])
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

func shapeFail(op string, a, b *Matrix) {
	panic(&ShapeError{
		Op:    op,
		Left:  [2]int{a.rows, a.cols},
		Right: [2]int{b.rows, b.cols},
	})
}

func sameShape(op string, a, b *Matrix) {
	if a.rows != b.rows || a.cols != b.cols {
		shapeFail(op, a, b)
	}
}

// mulParallelWork is the number of multiply-adds above which Mul splits the
// output rows across goroutines.
const mulParallelWork = 1 << 16

var mulConfig = func() parallel.Config {
	cfg := parallel.DefaultConfig()
	cfg.MinChunkSize = 8
	return cfg
}()

// Mul returns the matrix product m·o.
//
// Panics with *ShapeError when m.Cols() != o.Rows().
func (m *Matrix) Mul(o *Matrix) *Matrix {
	if m.cols != o.rows {
		shapeFail("Mul", m, o)
	}

	result := New(m.rows, o.cols)
	// Rows of oT are the columns of o, so each output element is one dot product
	// of two contiguous slices.
	oT := o.Transpose()

	cfg := mulConfig
	if m.rows*m.cols*o.cols < mulParallelWork {
		cfg.Enabled = false
	}

	parallel.For(m.rows, func(row int) {
		left := m.data[row*m.cols : (row+1)*m.cols]
		out := result.data[row*o.cols : (row+1)*o.cols]
		for col := range out {
			out[col] = floats.Dot(left, oT.data[col*o.rows:(col+1)*o.rows])
		}
	}, cfg)

	return result
}

// Scale returns s·m.
func (m *Matrix) Scale(s float64) *Matrix {
	result := New(m.rows, m.cols)
	floats.ScaleTo(result.data, s, m.data)
	return result
}

// Add returns m+o. Panics with *ShapeError when shapes differ.
func (m *Matrix) Add(o *Matrix) *Matrix {
	sameShape("Add", m, o)
	result := New(m.rows, m.cols)
	floats.AddTo(result.data, m.data, o.data)
	return result
}

// Sub returns m−o. Panics with *ShapeError when shapes differ.
func (m *Matrix) Sub(o *Matrix) *Matrix {
	sameShape("Sub", m, o)
	result := New(m.rows, m.cols)
	floats.SubTo(result.data, m.data, o.data)
	return result
}

// AddColumn returns m with the rows×1 column vector added to every column.
func (m *Matrix) AddColumn(column *Matrix) *Matrix {
	if column.cols != 1 || column.rows != m.rows {
		shapeFail("AddColumn", m, column)
	}
	result := New(m.rows, m.cols)
	for row := 0; row < m.rows; row++ {
		src := m.data[row*m.cols : (row+1)*m.cols]
		dst := result.data[row*m.cols : (row+1)*m.cols]
		copy(dst, src)
		floats.AddConst(column.data[row], dst)
	}
	return result
}

// SubInPlace subtracts o from m element-wise and returns m.
func (m *Matrix) SubInPlace(o *Matrix) *Matrix {
	sameShape("SubInPlace", m, o)
	floats.Sub(m.data, o.data)
	return m
}
