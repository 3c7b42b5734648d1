package optim

import (
	"github.com/born-ml/densenet/internal/nn"
)

// SGD implements plain stochastic gradient descent on a fixed schedule.
//
// Update rule for each affine stage:
//
//	bias   = bias   - lr * mean(error)
//	weight = weight - lr/batch * error · inputᵗ
//
// The parameters are updated by the network itself, under its lock, so one
// SGD value can be shared by every worker of an epoch.
type SGD struct {
	schedule Schedule
}

// NewSGD creates an SGD optimizer. A nil schedule means Constant(0.01).
func NewSGD(schedule Schedule) *SGD {
	if schedule == nil {
		schedule = Constant(0.01)
	}
	return &SGD{schedule: schedule}
}

// NewSGDFromHyper creates an SGD optimizer annealing linearly across the
// epochs stored in h.
func NewSGDFromHyper(h nn.Hyper) *SGD {
	return NewSGD(Linear{Initial: h.InitialLR, Final: h.FinalLR, Epochs: h.Epochs})
}

// LR returns the learning rate of the epoch.
func (s *SGD) LR(epoch int) float64 {
	return s.schedule.LR(epoch)
}

// Step applies the back-propagated result to the network with the learning
// rate of the epoch.
func (s *SGD) Step(net *nn.Network, result *nn.BatchResult, epoch int) error {
	return net.Adjust(result, s.LR(epoch))
}
