package matrix

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randomMatrix(rng *rand.Rand, rows, cols int) *Matrix {
	return Generate(rows, cols, func(int) float64 { return rng.NormFloat64() })
}

func TestFromSlice_RowOrder(t *testing.T) {
	m := FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, true)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3.0, m.At(0, 2))
	assert.Equal(t, 4.0, m.At(1, 0))
}

func TestFromSlice_ColumnOrder(t *testing.T) {
	m := FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, false)

	// Columns are [1 2], [3 4], [5 6].
	assert.Equal(t, []float64{1, 3, 5, 2, 4, 6}, m.Data())
}

func TestFromSlice_WrongLength(t *testing.T) {
	assert.Panics(t, func() { FromSlice(2, 2, []float64{1, 2, 3}, true) })
}

func TestGenerate(t *testing.T) {
	m := Generate(2, 2, func(i int) float64 { return float64(i * 10) })
	assert.Equal(t, []float64{0, 10, 20, 30}, m.Data())
}

func TestEmpty(t *testing.T) {
	m := New(0, 0)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0.0, m.Sum())
	assert.Empty(t, m.LargestRowIndexes())
}

func TestTranspose_ConcreteExample(t *testing.T) {
	m := FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, true)
	tr := m.Transpose()

	require.Equal(t, 3, tr.Rows())
	require.Equal(t, 2, tr.Cols())
	want := FromSlice(3, 2, []float64{1, 4, 2, 5, 3, 6}, true)
	assert.Equal(t, want.Data(), tr.Data())

	// Receiver untouched.
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, m.Data())
}

func TestTranspose_Involution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, shape := range [][2]int{{1, 1}, {1, 7}, {5, 1}, {4, 9}, {13, 3}} {
		m := randomMatrix(rng, shape[0], shape[1])
		assert.True(t, m.Transpose().Transpose().Equal(m), "shape %v", shape)
	}
}

func TestMul_Shape(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, dims := range [][3]int{{1, 1, 1}, {2, 3, 4}, {7, 1, 5}, {10, 100, 32}} {
		a := randomMatrix(rng, dims[0], dims[1])
		b := randomMatrix(rng, dims[1], dims[2])
		c := a.Mul(b)
		assert.Equal(t, dims[0], c.Rows())
		assert.Equal(t, dims[2], c.Cols())
	}
}

func TestMul_MatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	// The second case is large enough to take the parallel path.
	for _, dims := range [][3]int{{3, 4, 5}, {120, 80, 64}} {
		a := randomMatrix(rng, dims[0], dims[1])
		b := randomMatrix(rng, dims[1], dims[2])

		var want mat.Dense
		want.Mul(
			mat.NewDense(dims[0], dims[1], a.Clone().Data()),
			mat.NewDense(dims[1], dims[2], b.Clone().Data()),
		)

		got := a.Mul(b)
		assert.InDeltaSlice(t, want.RawMatrix().Data, got.Data(), 1e-9, "dims %v", dims)
	}
}

func TestMul_DimensionMismatch(t *testing.T) {
	a := New(2, 3)
	b := New(2, 3)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)

		var shapeErr *ShapeError
		require.True(t, errors.As(err, &shapeErr))
		assert.True(t, errors.Is(err, ErrShapeMismatch))
		assert.Equal(t, "Mul", shapeErr.Op)
		assert.Contains(t, err.Error(), "2x3")
	}()
	a.Mul(b)
}

func TestElementwise(t *testing.T) {
	a := FromSlice(2, 2, []float64{1, 2, 3, 4}, true)
	b := FromSlice(2, 2, []float64{4, 3, 2, 1}, true)

	assert.Equal(t, []float64{5, 5, 5, 5}, a.Add(b).Data())
	assert.Equal(t, []float64{-3, -1, 1, 3}, a.Sub(b).Data())
	assert.Equal(t, []float64{2, 4, 6, 8}, a.Scale(2).Data())
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data(), "operators must not mutate")

	a.SubInPlace(b)
	assert.Equal(t, []float64{-3, -1, 1, 3}, a.Data())
}

func TestElementwise_ShapeMismatch(t *testing.T) {
	a := New(2, 2)
	b := New(2, 3)
	assert.Panics(t, func() { a.Add(b) })
	assert.Panics(t, func() { a.Sub(b) })
	assert.Panics(t, func() { a.SubInPlace(b) })
	assert.Panics(t, func() { a.AddColumn(New(2, 2)) })
}

func TestAddColumn(t *testing.T) {
	m := FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, true)
	bias := FromSlice(2, 1, []float64{10, 20}, true)

	assert.Equal(t, []float64{11, 12, 13, 24, 25, 26}, m.AddColumn(bias).Data())
}

func TestModifyAndApply(t *testing.T) {
	m := FromSlice(2, 2, []float64{1, 2, 3, 4}, true)

	var order []int
	out := m.Apply(func(row, col, index int, v float64) float64 {
		order = append(order, index)
		assert.Equal(t, row*2+col, index)
		return v * 10
	})
	assert.Equal(t, []int{0, 1, 2, 3}, order)
	assert.Equal(t, []float64{10, 20, 30, 40}, out.Data())
	assert.Equal(t, []float64{1, 2, 3, 4}, m.Data())

	same := m.Modify(func(_, _, _ int, v float64) float64 { return -v })
	assert.Same(t, m, same)
	assert.Equal(t, []float64{-1, -2, -3, -4}, m.Data())
}

func TestClone_Independent(t *testing.T) {
	m := FromSlice(1, 2, []float64{1, 2}, true)
	c := m.Clone()
	c.Set(0, 0, 99)
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestReductions(t *testing.T) {
	m := FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, true)

	assert.Equal(t, []float64{6, 15}, m.RowSums().Data())
	assert.Equal(t, []float64{2, 5}, m.RowMeans().Data())
	cs := m.ColSums()
	assert.Equal(t, 1, cs.Rows())
	assert.Equal(t, []float64{5, 7, 9}, cs.Data())
	assert.Equal(t, 21.0, m.Sum())
}

func TestLargestRowIndexes(t *testing.T) {
	m := FromSlice(3, 4, []float64{
		1, 9, 0, 5,
		3, 2, 0, 5,
		2, 8, 0, 1,
	}, true)

	// Ties (columns 2 and 3) resolve to the earliest row.
	assert.Equal(t, []int{1, 0, 0, 0}, m.LargestRowIndexes())
}

func TestEqual_Tolerance(t *testing.T) {
	a := FromSlice(1, 3, []float64{1, 2, 3}, true)

	assert.True(t, a.Equal(FromSlice(1, 3, []float64{1.005, 1.995, 3}, true)))
	assert.False(t, a.Equal(FromSlice(1, 3, []float64{1.02, 2, 3}, true)))
	assert.False(t, a.Equal(FromSlice(3, 1, []float64{1, 2, 3}, true)))
}

func TestString_Preview(t *testing.T) {
	small := FromSlice(1, 2, []float64{1, -2}, true)
	assert.Equal(t, "+1.00000  -2.00000\n", small.String())

	big := New(10, 12)
	s := big.String()
	assert.Contains(t, s, "(showing 8x8 of 10x12)")
	assert.Equal(t, 9, strings.Count(s, "\n"))
}
