package nn

import "github.com/born-ml/densenet/internal/matrix"

// BatchResult carries one batch through forward, backward and adjust.
//
// IO[0] is the batch input and IO[i+1] the output of stage i. Errors has the
// same alignment: Errors[i] is the error at IO[i].
type BatchResult struct {
	IO     []*matrix.Matrix
	Errors []*matrix.Matrix

	Items   int     // items in the batch
	Correct int     // items whose predicted class matches
	Loss    float64 // summed cross-entropy
}

// Output returns the final activation.
func (r *BatchResult) Output() *matrix.Matrix {
	return r.IO[len(r.IO)-1]
}

// InputGradient returns Errors[0], which is only computed when Backward was
// asked for the input gradient.
func (r *BatchResult) InputGradient() *matrix.Matrix {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Score sets Correct and Loss from the output and the one-hot expected
// matrix. The output must be a probability distribution per column.
func (r *BatchResult) Score(expected *matrix.Matrix) {
	output := r.Output()
	r.Correct = NumberCorrect(output, expected)
	r.Loss = CrossEntropy(output, expected).Sum()
}
