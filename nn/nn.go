// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/profiler"
)

// Network is an ordered pipeline of stages trained by mini-batch SGD.
type Network = nn.Network

// Hyper holds the training hyperparameters stored with a network.
type Hyper = nn.Hyper

// Option configures New, NewFromSizes and FromStages.
type Option = nn.Option

// BatchResult carries the activations and errors of one batch.
type BatchResult = nn.BatchResult

// Profiler accumulates named wall-clock intervals. A nil *Profiler is a no-op.
type Profiler = profiler.Profiler

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return profiler.New()
}

// Stages

// Kind identifies a stage type.
type Kind = nn.Kind

// Stage kinds.
const (
	KindAffine    = nn.KindAffine
	KindRectify   = nn.KindRectify
	KindNormalize = nn.KindNormalize
)

// Stage is one step of the pipeline: *Dense, ReLU or Softmax.
type Stage = nn.Stage

// Dense is an affine stage with weight (out×in) and bias (out×1).
type Dense = nn.Dense

// ReLU is the rectified linear stage.
type ReLU = nn.ReLU

// Softmax is the column-wise normalization stage.
type Softmax = nn.Softmax

// Errors

// Configuration errors, checked with errors.Is.
var (
	ErrMissingInputSize  = nn.ErrMissingInputSize
	ErrMissingOutputSize = nn.ErrMissingOutputSize
	ErrTooFewLayers      = nn.ErrTooFewLayers
	ErrMissingNormalize  = nn.ErrMissingNormalize
	ErrUnknownKind       = nn.ErrUnknownKind
	ErrParameterShape    = nn.ErrParameterShape
	ErrResultMismatch    = nn.ErrResultMismatch
	ErrNoGradients       = nn.ErrNoGradients
)

// Construction

// DefaultHyper returns the default hyperparameters.
func DefaultHyper() Hyper {
	return nn.DefaultHyper()
}

// WithSeed sets the seed of the weight initializer.
func WithSeed(seed int64) Option {
	return nn.WithSeed(seed)
}

// WithProfiler times Forward, Backward and Adjust into p.
func WithProfiler(p *Profiler) Option {
	return nn.WithProfiler(p)
}

// New creates an empty network. Stages are added with AddLayer.
func New(h Hyper, opts ...Option) *Network {
	return nn.New(h, opts...)
}

// NewFromSizes builds Dense/ReLU stages for consecutive sizes, without a
// ReLU after the last Dense, followed by a Softmax.
//
// Example:
//
//	net, err := nn.NewFromSizes([]int{10, 100, 50, 3}, nn.DefaultHyper())
func NewFromSizes(sizes []int, h Hyper, opts ...Option) (*Network, error) {
	return nn.NewFromSizes(sizes, h, opts...)
}

// FromStages builds a network from existing stages after checking that the
// sizes chain.
func FromStages(h Hyper, stages []Stage, opts ...Option) (*Network, error) {
	return nn.FromStages(h, stages, opts...)
}

// NewDense creates a Dense stage with normally distributed weights.
func NewDense(in, out int, scale float64, rng *rand.Rand) *Dense {
	return nn.NewDense(in, out, scale, rng)
}

// DenseFrom wraps existing parameters in a Dense stage.
func DenseFrom(weight, bias *matrix.Matrix) (*Dense, error) {
	return nn.DenseFrom(weight, bias)
}

// Functions

// Rectify returns max(0, x) elementwise.
func Rectify(m *matrix.Matrix) *matrix.Matrix {
	return nn.Rectify(m)
}

// Normalize returns the column-wise softmax of m.
func Normalize(m *matrix.Matrix) *matrix.Matrix {
	return nn.Normalize(m)
}

// CrossEntropy returns the per-item cross-entropy as a 1×N matrix.
func CrossEntropy(actual, expected *matrix.Matrix) *matrix.Matrix {
	return nn.CrossEntropy(actual, expected)
}

// NumberCorrect counts the columns whose largest entry matches expected.
func NumberCorrect(actual, expected *matrix.Matrix) int {
	return nn.NumberCorrect(actual, expected)
}

// Gradient estimates d evaluate / d input by forward differences.
func Gradient(input *matrix.Matrix, evaluate func() float64) *matrix.Matrix {
	return nn.Gradient(input, evaluate)
}
