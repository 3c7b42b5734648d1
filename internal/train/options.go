// Package train runs the epoch loop that fits a network to a dataset.
//
// Each epoch submits one task per batch to a worker pool. A task pulls its
// own batch from the loader and runs forward, backward and adjust; the
// caller drains one statistics record per task. An evaluation pass over a
// second loader follows every training pass.
package train

import (
	"fmt"
	"log"
	"strings"

	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/optim"
	"github.com/born-ml/densenet/internal/parallel"
	"github.com/born-ml/densenet/internal/profiler"
)

// Policy selects how concurrent batches share the network parameters.
type Policy int

const (
	// Hogwild lets batches interleave. Each parameter read or write holds
	// the network lock for that operation only, so results depend on
	// scheduling and are not reproducible across worker counts.
	Hogwild Policy = iota

	// Serialized runs each batch (fetch, forward, backward, adjust) under
	// one exclusive lock. Batches are applied in loader order, so the
	// trained parameters do not depend on the worker count.
	Serialized
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Hogwild:
		return "hogwild"
	case Serialized:
		return "serialized"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name as returned by String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hogwild":
		return Hogwild, nil
	case "serialized":
		return Serialized, nil
	default:
		return 0, fmt.Errorf("train: unknown policy %q", s)
	}
}

// Options configures Fit and Evaluate. The zero value uses the network's
// hyperparameters.
type Options struct {
	Policy Policy

	// Workers overrides the network's worker count when positive.
	Workers int

	// Epochs overrides the network's epoch count when positive.
	Epochs int

	// Schedule overrides the linear anneal from the network's initial to
	// final learning rate.
	Schedule optim.Schedule

	// Logger receives one line per epoch. Nil disables logging.
	Logger *log.Logger

	// Profiler times the passes and batches. Nil disables timing.
	Profiler *profiler.Profiler
}

func (o Options) workers(h nn.Hyper) int {
	switch {
	case o.Workers > 0:
		return o.Workers
	case h.Workers > 0:
		return h.Workers
	default:
		return parallel.NumCPU()
	}
}

func (o Options) epochs(h nn.Hyper) int {
	if o.Epochs > 0 {
		return o.Epochs
	}
	return h.Epochs
}

func (o Options) schedule(h nn.Hyper, epochs int) optim.Schedule {
	if o.Schedule != nil {
		return o.Schedule
	}
	return optim.Linear{Initial: h.InitialLR, Final: h.FinalLR, Epochs: epochs}
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}
