package nn

import "fmt"

// AddLayer appends a stage of the given kind.
//
// For KindAffine, sizes is (outSize) or (outSize, inSize). When inSize is
// omitted it is taken from the output size of the previous affine stage; the
// first affine stage must name it. Weights are drawn from
// N(0, WeightScale²) and the bias starts at zero.
//
// KindRectify and KindNormalize take no sizes.
//
// Example:
//
//	net := nn.New(nn.DefaultHyper())
//	_ = net.AddLayer(nn.KindAffine, 100, 10)
//	_ = net.AddLayer(nn.KindRectify)
//	_ = net.AddLayer(nn.KindAffine, 3)
//	_ = net.AddLayer(nn.KindNormalize)
func (n *Network) AddLayer(kind Kind, sizes ...int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch kind {
	case KindAffine:
		if len(sizes) == 0 || sizes[0] <= 0 {
			return ErrMissingOutputSize
		}
		out, in := sizes[0], 0
		if len(sizes) > 1 {
			in = sizes[1]
		}
		if in <= 0 {
			in = n.lastOutput()
		}
		if in <= 0 {
			return ErrMissingInputSize
		}
		n.stages = append(n.stages, NewDense(in, out, n.hyper.WeightScale, n.rng))
	case KindRectify:
		n.stages = append(n.stages, ReLU{})
	case KindNormalize:
		n.stages = append(n.stages, Softmax{})
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
	return nil
}

// lastOutput returns the output size of the last affine stage. Callers hold mu.
func (n *Network) lastOutput() int {
	for i := len(n.stages) - 1; i >= 0; i-- {
		if d, ok := n.stages[i].(*Dense); ok {
			return d.OutFeatures()
		}
	}
	return 0
}

// NewFromSizes builds the standard classifier for the given layer sizes:
// an affine stage followed by ReLU for each consecutive pair of sizes, with
// the final ReLU replaced by Softmax.
//
// Example:
//
//	// 10 inputs, hidden layers of 100 and 50, 3 classes
//	net, err := nn.NewFromSizes([]int{10, 100, 50, 3}, nn.DefaultHyper())
func NewFromSizes(sizes []int, h Hyper, opts ...Option) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewLayers, len(sizes))
	}

	n := New(h, opts...)
	for i := 1; i < len(sizes); i++ {
		if err := n.AddLayer(KindAffine, sizes[i], sizes[i-1]); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		final := KindRectify
		if i == len(sizes)-1 {
			final = KindNormalize
		}
		if err := n.AddLayer(final); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// FromStages builds a network around existing stages, for example ones read
// from a model file. Consecutive affine stages must agree on their sizes.
// The stages are used as given, not copied.
func FromStages(h Hyper, stages []Stage, opts ...Option) (*Network, error) {
	prev := 0
	for i, s := range stages {
		switch s := s.(type) {
		case *Dense:
			if s == nil || s.Weight == nil || s.Bias == nil {
				return nil, fmt.Errorf("%w: stage %d has no parameters", ErrParameterShape, i)
			}
			if s.Bias.Cols() != 1 || s.Bias.Rows() != s.Weight.Rows() {
				return nil, fmt.Errorf("%w: stage %d bias %dx%d for weight %dx%d", ErrParameterShape,
					i, s.Bias.Rows(), s.Bias.Cols(), s.Weight.Rows(), s.Weight.Cols())
			}
			if prev > 0 && s.InFeatures() != prev {
				return nil, fmt.Errorf("%w: stage %d takes %d inputs, previous affine yields %d",
					ErrParameterShape, i, s.InFeatures(), prev)
			}
			prev = s.OutFeatures()
		case ReLU, Softmax:
		default:
			return nil, fmt.Errorf("%w: stage %d is %T", ErrUnknownKind, i, s)
		}
	}

	n := New(h, opts...)
	n.stages = append(n.stages, stages...)
	return n, nil
}
