package train

import (
	"time"

	"github.com/google/uuid"
)

// Totals accumulates batch statistics over one pass.
type Totals struct {
	Items   int
	Correct int
	Loss    float64 // summed cross-entropy
}

func (t *Totals) record(s batchStats) {
	t.Items += s.items
	t.Correct += s.correct
	t.Loss += s.loss
}

// Accuracy returns the fraction of items classified correctly.
func (t Totals) Accuracy() float64 {
	if t.Items == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Items)
}

// MeanLoss returns the average cross-entropy per item.
func (t Totals) MeanLoss() float64 {
	if t.Items == 0 {
		return 0
	}
	return t.Loss / float64(t.Items)
}

// EpochStats summarizes one epoch.
type EpochStats struct {
	Epoch    int
	LR       float64
	Train    Totals
	Eval     Totals
	Duration time.Duration
}

// Report is the outcome of a Fit run.
type Report struct {
	RunID  uuid.UUID
	Epochs []EpochStats
}

// Final returns the statistics of the last completed epoch.
func (r Report) Final() (EpochStats, bool) {
	if len(r.Epochs) == 0 {
		return EpochStats{}, false
	}
	return r.Epochs[len(r.Epochs)-1], true
}

// batchStats is the result of one batch task.
type batchStats struct {
	items   int
	correct int
	loss    float64
	err     error
}
