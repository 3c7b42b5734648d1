// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/optim"
)

// Schedule yields the learning rate for an epoch.
type Schedule = optim.Schedule

// Linear interpolates from Initial at epoch 0 to Final at epoch Epochs-1.
type Linear = optim.Linear

// Constant is a fixed learning rate.
type Constant = optim.Constant

// SGD applies plain stochastic gradient descent on a schedule.
type SGD = optim.SGD

// NewSGD creates an SGD optimizer. A nil schedule means Constant(0.01).
//
// Example:
//
//	sgd := optim.NewSGD(optim.Constant(0.05))
func NewSGD(schedule Schedule) *SGD {
	return optim.NewSGD(schedule)
}

// NewSGDFromHyper creates an SGD optimizer annealing linearly across the
// epochs stored in h.
func NewSGDFromHyper(h nn.Hyper) *SGD {
	return optim.NewSGDFromHyper(h)
}
