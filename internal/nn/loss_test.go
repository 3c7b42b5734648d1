package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/densenet/internal/matrix"
)

// oneHot returns a classes×len(labels) matrix with a 1 in each label row.
func oneHot(classes int, labels []int) *matrix.Matrix {
	m := matrix.New(classes, len(labels))
	for col, label := range labels {
		m.Set(label, col, 1)
	}
	return m
}

func TestCrossEntropy_KnownValues(t *testing.T) {
	actual := matrix.FromSlice(3, 2, []float64{
		0.7, 0.1,
		0.2, 0.1,
		0.1, 0.8,
	}, true)
	expected := oneHot(3, []int{0, 1})

	loss := CrossEntropy(actual, expected)

	rows, cols := loss.Shape()
	require.Equal(t, 1, rows)
	require.Equal(t, 2, cols)
	assert.InDelta(t, -math.Log(0.7), loss.At(0, 0), 1e-12)
	assert.InDelta(t, -math.Log(0.1), loss.At(0, 1), 1e-12)
}

func TestCrossEntropy_NonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 20; trial++ {
		actual := Normalize(Normal(4, 16, 3, rng))
		labels := make([]int, 16)
		for i := range labels {
			labels[i] = rng.Intn(4)
		}

		loss := CrossEntropy(actual, oneHot(4, labels))

		loss.ForEach(func(_, col, _ int, v float64) {
			assert.GreaterOrEqual(t, v, 0.0, "trial %d column %d", trial, col)
		})
	}
}

func TestNumberCorrect(t *testing.T) {
	actual := matrix.FromSlice(3, 4, []float64{
		0.6, 0.1, 0.3, 0.2,
		0.3, 0.8, 0.3, 0.2,
		0.1, 0.1, 0.4, 0.6,
	}, true)

	assert.Equal(t, 3, NumberCorrect(actual, oneHot(3, []int{0, 1, 2, 0})))
	assert.Equal(t, 4, NumberCorrect(actual, oneHot(3, []int{0, 1, 2, 2})))
	assert.Equal(t, 0, NumberCorrect(actual, oneHot(3, []int{1, 0, 0, 1})))
}
