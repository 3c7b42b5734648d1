package nn

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/parallel"
	"github.com/born-ml/densenet/internal/profiler"
)

// Hyper holds the training hyperparameters stored with a network.
type Hyper struct {
	InitialLR   float64 // learning rate of the first epoch
	FinalLR     float64 // learning rate of the last epoch
	WeightScale float64 // standard deviation of initial weights
	Epochs      int
	Workers     int
}

// DefaultHyper returns the hyperparameters used when none are configured.
func DefaultHyper() Hyper {
	return Hyper{
		InitialLR:   0.02,
		FinalLR:     0.001,
		WeightScale: 0.1,
		Epochs:      20,
		Workers:     parallel.NumCPU(),
	}
}

// Option configures a Network.
type Option func(*networkOptions)

type networkOptions struct {
	seed     int64
	profiler *profiler.Profiler
}

// WithSeed sets the seed of the weight initializer.
func WithSeed(seed int64) Option {
	return func(o *networkOptions) {
		o.seed = seed
	}
}

// WithProfiler times Forward, Backward and Adjust into p.
func WithProfiler(p *profiler.Profiler) Option {
	return func(o *networkOptions) {
		o.profiler = p
	}
}

// Network is an ordered pipeline of stages trained by mini-batch SGD.
//
// A Network is safe for concurrent use. Every read of a parameter during
// Forward or Backward holds the read lock for that one product, and every
// write in Adjust holds the write lock for that one subtraction. Batches
// running on different goroutines therefore interleave at the operation
// level (Hogwild-style); callers needing whole-batch exclusion serialize
// batches themselves.
type Network struct {
	mu     sync.RWMutex
	stages []Stage
	hyper  Hyper
	rng    *rand.Rand
	prof   *profiler.Profiler
}

// New creates an empty network. Stages are appended with AddLayer.
func New(h Hyper, opts ...Option) *Network {
	options := &networkOptions{seed: 1}
	for _, opt := range opts {
		opt(options)
	}

	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng := rand.New(rand.NewSource(options.seed))

	return &Network{
		hyper: h,
		rng:   rng,
		prof:  options.profiler,
	}
}

// Hyper returns the network hyperparameters.
func (n *Network) Hyper() Hyper {
	return n.hyper
}

// Len returns the number of stages.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.stages)
}

// InputSize returns the input feature count, or 0 when the network has no
// affine stage.
func (n *Network) InputSize() int {
	for _, s := range n.pipeline() {
		if d, ok := s.(*Dense); ok {
			return d.InFeatures()
		}
	}
	return 0
}

// OutputSize returns the output feature count of the last affine stage.
func (n *Network) OutputSize() int {
	stages := n.pipeline()
	for i := len(stages) - 1; i >= 0; i-- {
		if d, ok := stages[i].(*Dense); ok {
			return d.OutFeatures()
		}
	}
	return 0
}

// Validate reports whether the network can be trained: it must have an
// affine stage and end with Softmax.
func (n *Network) Validate() error {
	stages := n.pipeline()
	if len(stages) == 0 || stages[len(stages)-1].Kind() != KindNormalize {
		return ErrMissingNormalize
	}
	if n.InputSize() == 0 {
		return fmt.Errorf("%w: no affine stage", ErrMissingInputSize)
	}
	return nil
}

// pipeline returns the current stage slice. Stages are only ever appended, so
// the returned prefix stays valid.
func (n *Network) pipeline() []Stage {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.stages[:len(n.stages):len(n.stages)]
}

// Snapshot returns deep copies of the stages.
func (n *Network) Snapshot() []Stage {
	n.mu.RLock()
	defer n.mu.RUnlock()

	stages := make([]Stage, len(n.stages))
	for i, s := range n.stages {
		if d, ok := s.(*Dense); ok {
			stages[i] = d.clone()
			continue
		}
		stages[i] = s
	}
	return stages
}

// Summary returns one line per stage, e.g. "AFFINE 100 x 10".
func (n *Network) Summary() string {
	var sb strings.Builder
	for _, s := range n.pipeline() {
		sb.WriteString(s.Kind().String())
		if d, ok := s.(*Dense); ok {
			fmt.Fprintf(&sb, " %d x %d", d.OutFeatures(), d.InFeatures())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String implements fmt.Stringer.
func (n *Network) String() string {
	return n.Summary()
}

// Forward runs input (features × items) through every stage.
func (n *Network) Forward(input *matrix.Matrix) *BatchResult {
	defer n.prof.End(n.prof.Start("forward"))

	stages := n.pipeline()
	result := &BatchResult{
		IO:    make([]*matrix.Matrix, 0, len(stages)+1),
		Items: input.Cols(),
	}
	result.IO = append(result.IO, input)

	x := input
	for _, s := range stages {
		switch s := s.(type) {
		case *Dense:
			x = n.affine(s, x)
		case ReLU:
			x = Rectify(x)
		case Softmax:
			x = Normalize(x)
		}
		result.IO = append(result.IO, x)
	}
	return result
}

func (n *Network) affine(d *Dense, x *matrix.Matrix) *matrix.Matrix {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return d.Weight.Mul(x).AddColumn(d.Bias)
}

func (n *Network) propagate(d *Dense, downstream *matrix.Matrix) *matrix.Matrix {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return d.Weight.Transpose().Mul(downstream)
}

// Predict runs a forward pass and returns the final output.
func (n *Network) Predict(input *matrix.Matrix) *matrix.Matrix {
	return n.Forward(input).Output()
}

// Backward back-propagates the error of result against expected.
//
// The pipeline must end with Softmax. The output error is output − expected,
// the combined gradient of softmax and cross-entropy. Errors[i] receives the
// error at IO[i]. The first affine stage does not propagate further unless
// wantInputGradient is set, so Errors[0] is nil in normal training.
//
// Backward also fills result.Correct and result.Loss.
func (n *Network) Backward(result *BatchResult, expected *matrix.Matrix, wantInputGradient bool) error {
	defer n.prof.End(n.prof.Start("backward"))

	stages := n.pipeline()
	last := len(stages)
	if last == 0 || stages[last-1].Kind() != KindNormalize {
		return ErrMissingNormalize
	}
	if len(result.IO) != last+1 {
		return fmt.Errorf("%w: %d activations for %d stages", ErrResultMismatch, len(result.IO), last)
	}
	output := result.IO[last]
	if output.Rows() != expected.Rows() || output.Cols() != expected.Cols() {
		return fmt.Errorf("%w: output %dx%d, expected %dx%d",
			ErrResultMismatch, output.Rows(), output.Cols(), expected.Rows(), expected.Cols())
	}

	first := -1
	for i, s := range stages {
		if s.Kind() == KindAffine {
			first = i
			break
		}
	}

	errs := make([]*matrix.Matrix, last+1)
	errs[last] = output.Sub(expected)
	for i := last - 1; i >= 0; i-- {
		downstream := errs[i+1]
		if downstream == nil {
			break
		}
		switch s := stages[i].(type) {
		case Softmax:
			if i == last-1 {
				errs[i] = downstream
			} else {
				errs[i] = softmaxBackward(result.IO[i+1], downstream)
			}
		case ReLU:
			input := result.IO[i].Data()
			errs[i] = downstream.Apply(func(_, _, index int, v float64) float64 {
				if input[index] < 0 {
					return 0
				}
				return v
			})
		case *Dense:
			if i == first && !wantInputGradient {
				continue
			}
			errs[i] = n.propagate(s, downstream)
		}
	}

	result.Errors = errs
	result.Score(expected)
	return nil
}

// Adjust applies one SGD step from a back-propagated result:
//
//	bias   -= lr · rowMean(err)
//	weight -= (lr / batch) · err · inputᵗ
//
// where err is the error at the affine output and input is its forward input.
// Each subtraction holds the write lock on its own.
func (n *Network) Adjust(result *BatchResult, lr float64) error {
	defer n.prof.End(n.prof.Start("adjust"))

	stages := n.pipeline()
	if len(result.Errors) == 0 {
		return ErrNoGradients
	}
	if len(result.IO) != len(stages)+1 || len(result.Errors) != len(stages)+1 {
		return fmt.Errorf("%w: %d activations, %d errors for %d stages",
			ErrResultMismatch, len(result.IO), len(result.Errors), len(stages))
	}
	for i, s := range stages {
		if s.Kind() == KindAffine && result.Errors[i+1] == nil {
			return fmt.Errorf("%w: stage %d", ErrNoGradients, i)
		}
	}

	batch := float64(result.IO[0].Cols())
	for i, s := range stages {
		d, ok := s.(*Dense)
		if !ok {
			continue
		}
		grad := result.Errors[i+1]
		biasDelta := grad.RowMeans().Scale(lr)
		weightDelta := grad.Mul(result.IO[i].Transpose()).Scale(lr / batch)

		n.mu.Lock()
		d.Bias.SubInPlace(biasDelta)
		n.mu.Unlock()

		n.mu.Lock()
		d.Weight.SubInPlace(weightDelta)
		n.mu.Unlock()
	}
	return nil
}
