// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the dense network of the densenet engine.
//
// # Overview
//
// A Network is an ordered pipeline of stages:
//   - Dense: affine map W·x + b
//   - ReLU: rectified linear unit
//   - Softmax: column-wise normalization, required as the final stage
//
// Inputs hold one item per column. Forward, Backward and Adjust may be called
// from many goroutines at once; parameter reads and writes are locked per
// product and per subtraction.
//
// # Basic Usage
//
//	net, err := nn.NewFromSizes([]int{784, 100, 10}, nn.DefaultHyper())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := net.Forward(input)
//	if err := net.Backward(result, expected, false); err != nil {
//	    log.Fatal(err)
//	}
//	if err := net.Adjust(result, 0.02); err != nil {
//	    log.Fatal(err)
//	}
//
// # Custom Pipelines
//
//	net := nn.New(nn.DefaultHyper(), nn.WithSeed(42))
//	_ = net.AddLayer(nn.KindAffine, 100, 784) // out, in
//	_ = net.AddLayer(nn.KindRectify)
//	_ = net.AddLayer(nn.KindAffine, 10)       // in inferred
//	_ = net.AddLayer(nn.KindNormalize)
//
// Use the train package to fit a network on a loader.
package nn
