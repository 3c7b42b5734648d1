package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/born-ml/densenet/internal/loader"
	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/optim"
	"github.com/born-ml/densenet/internal/parallel"
)

// step is the per-batch work after the forward pass.
type step func(result *nn.BatchResult, expected *matrix.Matrix) error

type runner struct {
	net     *nn.Network
	opts    Options
	workers int

	// batchMu serializes whole batches under the Serialized policy.
	batchMu sync.Mutex
}

// Fit trains net on trainData and, after every epoch, evaluates it on
// evalData (which may be nil).
//
// The learning rate of epoch e comes from the schedule (by default a linear
// anneal from the network's initial to final rate). On cancellation Fit
// returns ctx.Err() together with the epochs completed so far.
func Fit(ctx context.Context, net *nn.Network, trainData, evalData loader.Loader, opts Options) (Report, error) {
	report := Report{RunID: uuid.New()}
	if err := net.Validate(); err != nil {
		return report, err
	}

	h := net.Hyper()
	epochs := opts.epochs(h)
	sgd := optim.NewSGD(opts.schedule(h, epochs))
	r := &runner{net: net, opts: opts, workers: opts.workers(h)}

	opts.logf("run=%s policy=%s workers=%d epochs=%d", report.RunID, opts.Policy, r.workers, epochs)

	for epoch := range epochs {
		start := time.Now()
		stats := EpochStats{Epoch: epoch, LR: sgd.LR(epoch)}

		train, err := r.pass(ctx, "train", trainData, func(result *nn.BatchResult, expected *matrix.Matrix) error {
			if err := net.Backward(result, expected, false); err != nil {
				return err
			}
			return sgd.Step(net, result, epoch)
		})
		if err != nil {
			return report, err
		}
		stats.Train = train

		if evalData != nil {
			eval, err := r.pass(ctx, "eval", evalData, score)
			if err != nil {
				return report, err
			}
			stats.Eval = eval
		}

		stats.Duration = time.Since(start)
		report.Epochs = append(report.Epochs, stats)
		opts.logf("run=%s epoch=%d lr=%.5f train_loss=%.4f train_acc=%.2f%% eval_loss=%.4f eval_acc=%.2f%% duration=%s",
			report.RunID, epoch, stats.LR,
			stats.Train.MeanLoss(), 100*stats.Train.Accuracy(),
			stats.Eval.MeanLoss(), 100*stats.Eval.Accuracy(),
			stats.Duration.Round(time.Millisecond))
	}
	return report, nil
}

// Evaluate runs one forward-only pass over data and returns the totals.
func Evaluate(ctx context.Context, net *nn.Network, data loader.Loader, opts Options) (Totals, error) {
	if err := net.Validate(); err != nil {
		return Totals{}, err
	}
	r := &runner{net: net, opts: opts, workers: opts.workers(net.Hyper())}
	return r.pass(ctx, "eval", data, score)
}

func score(result *nn.BatchResult, expected *matrix.Matrix) error {
	result.Score(expected)
	return nil
}

// pass runs every batch of data through the pool once. A failure to close
// data is reported when the pass itself succeeded.
func (r *runner) pass(ctx context.Context, name string, data loader.Loader, fn step) (totals Totals, err error) {
	defer r.opts.Profiler.End(r.opts.Profiler.Start(name))

	if err := ctx.Err(); err != nil {
		return Totals{}, err
	}
	meta, err := data.Open()
	if err != nil {
		return Totals{}, fmt.Errorf("train: open %s data: %w", name, err)
	}
	defer func() {
		if closeErr := data.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("train: close %s data: %w", name, closeErr)
		}
	}()

	if meta.InputSize != r.net.InputSize() || meta.OutputSize != r.net.OutputSize() {
		return Totals{}, fmt.Errorf("%w: %s data is %d->%d, network is %d->%d", nn.ErrResultMismatch,
			name, meta.InputSize, meta.OutputSize, r.net.InputSize(), r.net.OutputSize())
	}

	pool := parallel.NewPool[batchStats](r.workers)
	for range meta.Batches {
		if err := pool.Submit(func() batchStats {
			return r.batch(ctx, data, meta, fn)
		}); err != nil {
			return Totals{}, err
		}
	}
	if err := pool.Start(); err != nil {
		return Totals{}, err
	}

	var firstErr error
	for range pool.Size() {
		s := pool.Get()
		if s.err != nil && firstErr == nil {
			firstErr = s.err
		}
		totals.record(s)
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return totals, err
	}
	return totals, firstErr
}

// batch is one pool task: fetch, forward, then fn.
func (r *runner) batch(ctx context.Context, data loader.Loader, meta loader.MetaData, fn step) batchStats {
	if err := ctx.Err(); err != nil {
		return batchStats{err: err}
	}
	if r.opts.Policy == Serialized {
		r.batchMu.Lock()
		defer r.batchMu.Unlock()
	}
	defer r.opts.Profiler.End(r.opts.Profiler.Start("batch"))

	b, err := data.Batch()
	if errors.Is(err, io.EOF) {
		return batchStats{}
	}
	if err != nil {
		return batchStats{err: err}
	}

	input, expected := b.Matrices(meta)
	result := r.net.Forward(input)
	if err := fn(result, expected); err != nil {
		return batchStats{err: fmt.Errorf("batch %d: %w", b.Index, err)}
	}
	return batchStats{items: result.Items, correct: result.Correct, loss: result.Loss}
}
