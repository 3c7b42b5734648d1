// Package nn implements the layered feed-forward network and its training
// primitives.
//
// This package provides:
//   - Stage: the closed set of pipeline transforms (Dense, ReLU, Softmax)
//   - Network: forward evaluation, back-propagation and SGD parameter adjustment
//   - Numeric functions: Rectify, Normalize, CrossEntropy, NumberCorrect
//   - Gradient: finite-difference estimator for checking back-propagation
//
// Matrices hold one item per column, so a batch of 32 items with 10 features
// is a 10×32 matrix.
package nn

import "fmt"

// Kind identifies the type of a pipeline stage.
type Kind uint8

// Stage kinds. The numeric values are part of the model file format.
const (
	KindAffine Kind = iota
	KindRectify
	KindNormalize
)

// String returns the stage kind name.
func (k Kind) String() string {
	switch k {
	case KindAffine:
		return "AFFINE"
	case KindRectify:
		return "RECTIFY"
	case KindNormalize:
		return "NORMALIZE"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Stage is one transform of the network pipeline.
//
// The set is closed: a Stage is a *Dense, a ReLU or a Softmax. Parameters
// live inside the stage that owns them.
type Stage interface {
	// Kind returns the stage kind.
	Kind() Kind

	stage()
}
