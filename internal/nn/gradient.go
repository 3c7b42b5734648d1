package nn

import "github.com/born-ml/densenet/internal/matrix"

// GradientEpsilon is the perturbation used by Gradient.
const GradientEpsilon = 1e-6

// Gradient estimates d evaluate / d input by forward differences.
//
// Each element of input is perturbed by GradientEpsilon in turn, evaluate is
// re-run, and the element is restored. evaluate must read input, typically
// by closing over it. Intended for checking back-propagation, not for training.
func Gradient(input *matrix.Matrix, evaluate func() float64) *matrix.Matrix {
	result := matrix.New(input.Shape())
	base := evaluate()

	data := input.Data()
	grad := result.Data()
	for i, original := range data {
		data[i] = original + GradientEpsilon
		grad[i] = (evaluate() - base) / GradientEpsilon
		data[i] = original
	}
	return result
}

// CheckInputGradient back-propagates one batch through net and estimates the
// same input gradient numerically from the summed cross-entropy loss. The two
// should agree within matrix.Tolerance. input is left unchanged.
func CheckInputGradient(net *Network, input, expected *matrix.Matrix) (analytic, numeric *matrix.Matrix, err error) {
	result := net.Forward(input.Clone())
	if err := net.Backward(result, expected, true); err != nil {
		return nil, nil, err
	}
	analytic = result.InputGradient()

	numeric = Gradient(input, func() float64 {
		return CrossEntropy(net.Predict(input), expected).Sum()
	})
	return analytic, numeric, nil
}
