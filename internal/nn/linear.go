package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/densenet/internal/matrix"
)

// Dense implements a fully connected (affine) stage.
//
// Performs the transformation: y = W·x + b
// where:
//   - x is the input batch with shape [in_features, batch_size]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1], added to every item
//   - y is the output batch with shape [out_features, batch_size]
//
// Weights are drawn from a scaled normal distribution; biases start at zero.
type Dense struct {
	Weight *matrix.Matrix // [out_features, in_features]
	Bias   *matrix.Matrix // [out_features, 1]
}

// NewDense creates a Dense stage with freshly initialized parameters.
func NewDense(inFeatures, outFeatures int, scale float64, rng *rand.Rand) *Dense {
	return &Dense{
		Weight: Normal(outFeatures, inFeatures, scale, rng),
		Bias:   matrix.New(outFeatures, 1),
	}
}

// DenseFrom wraps existing parameters in a Dense stage.
func DenseFrom(weight, bias *matrix.Matrix) (*Dense, error) {
	if bias.Cols() != 1 || bias.Rows() != weight.Rows() {
		return nil, fmt.Errorf("%w: weight %dx%d, bias %dx%d",
			ErrParameterShape, weight.Rows(), weight.Cols(), bias.Rows(), bias.Cols())
	}
	return &Dense{Weight: weight, Bias: bias}, nil
}

// Kind returns KindAffine.
func (*Dense) Kind() Kind { return KindAffine }

func (*Dense) stage() {}

// InFeatures returns the number of input features.
func (d *Dense) InFeatures() int {
	return d.Weight.Cols()
}

// OutFeatures returns the number of output features.
func (d *Dense) OutFeatures() int {
	return d.Weight.Rows()
}

func (d *Dense) clone() *Dense {
	return &Dense{Weight: d.Weight.Clone(), Bias: d.Bias.Clone()}
}
