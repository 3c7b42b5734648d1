package nn

import (
	"math"

	"github.com/born-ml/densenet/internal/matrix"
)

// CrossEntropy computes the categorical cross-entropy of every item.
//
// Mathematical Formulation:
//
//	Loss[col] = -ln(actual[hot, col])
//	where hot is the row of the one-hot entry in expected[:, col]
//
// actual must hold probabilities (the output of Normalize). Returns a 1×N row.
func CrossEntropy(actual, expected *matrix.Matrix) *matrix.Matrix {
	hot := expected.LargestRowIndexes()
	result := matrix.New(1, len(hot))
	loss := result.Data()
	for col, row := range hot {
		loss[col] = -math.Log(actual.At(row, col))
	}
	return result
}

// NumberCorrect counts the columns where the most probable row of actual is
// the hot row of expected.
func NumberCorrect(actual, expected *matrix.Matrix) int {
	predicted := actual.LargestRowIndexes()
	correct := 0
	for col, row := range expected.LargestRowIndexes() {
		if predicted[col] == row {
			correct++
		}
	}
	return correct
}
