// Package optim implements the learning-rate schedules and the SGD update
// used to train networks.
//
// This package provides:
//   - Schedule interface: learning rate as a function of the epoch
//   - Linear: anneals from an initial to a final rate across all epochs
//   - Constant: a fixed rate
//   - SGD: applies one scheduled gradient step to a network
//
// Example usage:
//
//	sgd := optim.NewSGD(optim.Linear{Initial: 0.02, Final: 0.001, Epochs: 20})
//
//	for epoch := range 20 {
//	    result := net.Forward(input)
//	    _ = net.Backward(result, expected, false)
//	    _ = sgd.Step(net, result, epoch)
//	}
package optim

import "fmt"

// Schedule yields the learning rate for an epoch.
type Schedule interface {
	// LR returns the learning rate for the zero-based epoch.
	LR(epoch int) float64
}

// Linear interpolates the learning rate from Initial at epoch 0 to Final at
// epoch Epochs-1. Epochs outside that range are clamped.
type Linear struct {
	Initial float64
	Final   float64
	Epochs  int
}

// LR implements Schedule.
func (l Linear) LR(epoch int) float64 {
	if l.Epochs <= 1 {
		return l.Initial
	}
	epoch = min(max(epoch, 0), l.Epochs-1)
	t := float64(epoch) / float64(l.Epochs-1)
	return l.Initial + t*(l.Final-l.Initial)
}

// String implements fmt.Stringer.
func (l Linear) String() string {
	return fmt.Sprintf("linear(%g->%g over %d)", l.Initial, l.Final, l.Epochs)
}

// Constant is a fixed learning rate.
type Constant float64

// LR implements Schedule.
func (c Constant) LR(int) float64 {
	return float64(c)
}

// String implements fmt.Stringer.
func (c Constant) String() string {
	return fmt.Sprintf("constant(%g)", float64(c))
}
