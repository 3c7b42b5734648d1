// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the learning-rate schedules and the SGD step used
// to train densenet networks.
//
// # Overview
//
// This package contains:
//   - Schedule interface: learning rate per epoch
//   - Linear: anneals from an initial to a final rate
//   - Constant: a fixed rate
//   - SGD: applies one scheduled step to a network
//
// # Basic Usage
//
//	sgd := optim.NewSGD(optim.Linear{Initial: 0.02, Final: 0.001, Epochs: 20})
//
//	for epoch := range 20 {
//	    result := net.Forward(input)
//	    if err := net.Backward(result, expected, false); err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := sgd.Step(net, result, epoch); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// A custom schedule is passed to training through train.Options.Schedule.
package optim
