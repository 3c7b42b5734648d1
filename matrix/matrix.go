// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides the dense float64 matrix used by the densenet engine.
//
// Matrices are row-major and exclusively owned. Arithmetic returns new
// matrices; Modify and SubInPlace mutate the receiver. Shape violations panic
// with a *ShapeError that wraps ErrShapeMismatch.
//
// Example:
//
//	a := matrix.FromSlice(2, 3, []float64{1, 2, 3, 4, 5, 6}, true)
//	b := a.Transpose()
//	c := a.Mul(b) // 2×2
package matrix

import (
	"github.com/born-ml/densenet/internal/matrix"
)

// Matrix is a rows×cols dense float64 matrix.
type Matrix = matrix.Matrix

// ShapeError reports incompatible operand shapes.
type ShapeError = matrix.ShapeError

// ErrShapeMismatch is wrapped by every ShapeError.
var ErrShapeMismatch = matrix.ErrShapeMismatch

// Tolerance is the absolute tolerance used by Equal.
const Tolerance = matrix.Tolerance

// New creates a zero-filled matrix.
func New(rows, cols int) *Matrix {
	return matrix.New(rows, cols)
}

// FromSlice creates a matrix from values. When rowOrder is false the values
// fill the matrix column by column.
func FromSlice(rows, cols int, values []float64, rowOrder bool) *Matrix {
	return matrix.FromSlice(rows, cols, values, rowOrder)
}

// Generate creates a matrix whose element at flat row-major index i is f(i).
func Generate(rows, cols int, f func(index int) float64) *Matrix {
	return matrix.Generate(rows, cols, f)
}
