package nn

import (
	"math"

	"github.com/born-ml/densenet/internal/matrix"
)

// ReLU is the rectified-linear stage.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct{}

// Kind returns KindRectify.
func (ReLU) Kind() Kind { return KindRectify }

func (ReLU) stage() {}

// Softmax is the column-wise normalization stage.
//
// Converts each column of raw scores into a probability distribution.
// A network must end with Softmax before it can be trained.
type Softmax struct{}

// Kind returns KindNormalize.
func (Softmax) Kind() Kind { return KindNormalize }

func (Softmax) stage() {}

// Rectify returns max(0, x) applied element-wise.
func Rectify(m *matrix.Matrix) *matrix.Matrix {
	return m.Apply(func(_, _, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Normalize applies softmax to every column: exp(x_i) / Σ_j exp(x_j).
//
// The column maximum is subtracted before exponentiation. The result is the
// same distribution, but large activations no longer overflow to +Inf.
func Normalize(m *matrix.Matrix) *matrix.Matrix {
	rows, cols := m.Shape()
	result := matrix.New(rows, cols)
	if rows == 0 {
		return result
	}

	in := m.Data()
	out := result.Data()
	for col := 0; col < cols; col++ {
		peak := in[col]
		for row := 1; row < rows; row++ {
			peak = math.Max(peak, in[row*cols+col])
		}
		sum := 0.0
		for row := 0; row < rows; row++ {
			e := math.Exp(in[row*cols+col] - peak)
			out[row*cols+col] = e
			sum += e
		}
		for row := 0; row < rows; row++ {
			out[row*cols+col] /= sum
		}
	}
	return result
}

// softmaxBackward maps the error at a softmax output to the error at its
// input: s ⊙ (g − Σ s·g), per column.
func softmaxBackward(output, downstream *matrix.Matrix) *matrix.Matrix {
	rows, cols := output.Shape()
	result := matrix.New(rows, cols)
	s := output.Data()
	g := downstream.Data()
	out := result.Data()
	for col := 0; col < cols; col++ {
		dot := 0.0
		for row := 0; row < rows; row++ {
			dot += s[row*cols+col] * g[row*cols+col]
		}
		for row := 0; row < rows; row++ {
			i := row*cols + col
			out[i] = s[i] * (g[i] - dot)
		}
	}
	return result
}
