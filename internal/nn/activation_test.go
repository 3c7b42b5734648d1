package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/densenet/internal/matrix"
)

// TestRectify tests the ReLU function on a row vector.
func TestRectify(t *testing.T) {
	input := matrix.FromSlice(1, 3, []float64{-1, 0, 2}, true)

	output := Rectify(input)

	expected := []float64{0, 0, 2}
	for i, exp := range expected {
		if got := output.Data()[i]; got != exp {
			t.Errorf("Rectify(%v) = %v, expected %v", input.Data()[i], got, exp)
		}
	}

	// Input is untouched.
	if input.At(0, 0) != -1 {
		t.Errorf("Rectify modified its input: %v", input.Data())
	}
}

// TestNormalize_ColumnsSumToOne checks that every column is a distribution.
func TestNormalize_ColumnsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	input := Normal(7, 20, 5, rng)

	output := Normalize(input)

	sums := output.ColSums()
	for col := 0; col < output.Cols(); col++ {
		if math.Abs(sums.At(0, col)-1) > 1e-9 {
			t.Errorf("column %d sums to %v, expected 1", col, sums.At(0, col))
		}
	}
	output.ForEach(func(row, col, _ int, v float64) {
		if v < 0 || v > 1 {
			t.Errorf("output[%d,%d] = %v, outside [0,1]", row, col, v)
		}
	})
}

// TestNormalize_KnownValues tests softmax against hand-computed values.
func TestNormalize_KnownValues(t *testing.T) {
	// One column [1, 2, 3].
	input := matrix.FromSlice(3, 1, []float64{1, 2, 3}, true)

	output := Normalize(input)

	// exp(1), exp(2), exp(3) over their sum.
	expected := []float64{0.0900, 0.2447, 0.6652}
	for i, exp := range expected {
		if got := output.Data()[i]; math.Abs(got-exp) > 1e-4 {
			t.Errorf("Normalize row %d = %v, expected %v", i, got, exp)
		}
	}
}

// TestNormalize_LargeActivations checks that large scores do not overflow.
func TestNormalize_LargeActivations(t *testing.T) {
	input := matrix.FromSlice(2, 1, []float64{1000, 1001}, true)

	output := Normalize(input)

	for i, v := range output.Data() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Normalize row %d = %v", i, v)
		}
	}
	if math.Abs(output.At(1, 0)-0.7311) > 1e-4 {
		t.Errorf("Normalize = %v, expected [0.2689 0.7311]", output.Data())
	}
}

// TestSoftmaxBackward_MatchesJacobian compares the vector-Jacobian product
// with the explicit softmax Jacobian diag(s) − s·sᵗ.
func TestSoftmaxBackward_MatchesJacobian(t *testing.T) {
	s := Normalize(matrix.FromSlice(3, 1, []float64{0.5, -1, 2}, true))
	g := matrix.FromSlice(3, 1, []float64{1, -2, 0.5}, true)

	got := softmaxBackward(s, g)

	for i := 0; i < 3; i++ {
		want := 0.0
		for j := 0; j < 3; j++ {
			jac := -s.At(i, 0) * s.At(j, 0)
			if i == j {
				jac += s.At(i, 0)
			}
			want += jac * g.At(j, 0)
		}
		if math.Abs(got.At(i, 0)-want) > 1e-12 {
			t.Errorf("row %d = %v, expected %v", i, got.At(i, 0), want)
		}
	}
}

// TestStageKinds tests the kind of each stage and its name.
func TestStageKinds(t *testing.T) {
	tests := []struct {
		stage Stage
		kind  Kind
		name  string
	}{
		{&Dense{}, KindAffine, "AFFINE"},
		{ReLU{}, KindRectify, "RECTIFY"},
		{Softmax{}, KindNormalize, "NORMALIZE"},
	}

	for _, tt := range tests {
		if tt.stage.Kind() != tt.kind {
			t.Errorf("%T.Kind() = %v, expected %v", tt.stage, tt.stage.Kind(), tt.kind)
		}
		if tt.kind.String() != tt.name {
			t.Errorf("Kind(%d).String() = %q, expected %q", tt.kind, tt.kind.String(), tt.name)
		}
	}

	if got := Kind(7).String(); got != "Kind(7)" {
		t.Errorf("unknown kind renders as %q", got)
	}
}
