package train

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/densenet/internal/loader"
	"github.com/born-ml/densenet/internal/nn"
	"github.com/born-ml/densenet/internal/optim"
	"github.com/born-ml/densenet/internal/profiler"
)

func classifier(t *testing.T, h nn.Hyper, seed int64) *nn.Network {
	t.Helper()
	net, err := nn.NewFromSizes([]int{10, 100, 50, 3}, h, nn.WithSeed(seed))
	require.NoError(t, err)
	return net
}

// TestFit_ClassifiesSyntheticData trains on the radial dataset with a
// shortened schedule.
func TestFit_ClassifiesSyntheticData(t *testing.T) {
	h := nn.DefaultHyper()
	h.InitialLR, h.FinalLR = 0.1, 0.01
	h.Epochs = 10
	h.Workers = 4
	net := classifier(t, h, 1)

	trainData := loader.NewSynthetic(30000, 10, 3, 32, 1)
	evalData := loader.NewSynthetic(5000, 10, 3, 32, 2)

	report, err := Fit(context.Background(), net, trainData, evalData, Options{})
	require.NoError(t, err)
	require.Len(t, report.Epochs, 10)

	final, ok := report.Final()
	require.True(t, ok)
	assert.Equal(t, 30000, final.Train.Items)
	assert.Equal(t, 5000, final.Eval.Items)
	assert.Greater(t, final.Eval.Accuracy(), 0.85, "eval accuracy %.4f", final.Eval.Accuracy())
	assert.Less(t, final.Eval.MeanLoss(), report.Epochs[0].Eval.MeanLoss()+1e-9)
	assert.InDelta(t, 0.1, report.Epochs[0].LR, 1e-12)
	assert.InDelta(t, 0.01, final.LR, 1e-12)
}

// TestFit_FullClassification is the 60000-item, 20-epoch run.
func TestFit_FullClassification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full classification run in short mode")
	}

	h := nn.DefaultHyper()
	h.InitialLR, h.FinalLR = 0.02, 0.001
	h.Epochs = 20
	net := classifier(t, h, 1)

	trainData := loader.NewSynthetic(60000, 10, 3, 32, 1)
	evalData := loader.NewSynthetic(10000, 10, 3, 32, 2)

	report, err := Fit(context.Background(), net, trainData, evalData, Options{})
	require.NoError(t, err)

	final, ok := report.Final()
	require.True(t, ok)
	assert.Greater(t, final.Eval.Accuracy(), 0.96, "eval accuracy %.4f", final.Eval.Accuracy())
}

// TestFit_SerializedMatchesSingleWorker checks that the serialized policy
// applies batches in loader order whatever the worker count.
func TestFit_SerializedMatchesSingleWorker(t *testing.T) {
	h := nn.DefaultHyper()
	h.Epochs = 2

	run := func(policy Policy, workers int) *nn.Network {
		net := classifier(t, h, 3)
		_, err := Fit(context.Background(), net,
			loader.NewSynthetic(2000, 10, 3, 32, 5), nil,
			Options{Policy: policy, Workers: workers})
		require.NoError(t, err)
		return net
	}

	baseline := run(Hogwild, 1)
	for _, workers := range []int{1, 3, 8} {
		got := run(Serialized, workers)
		for i, stage := range baseline.Snapshot() {
			d, ok := stage.(*nn.Dense)
			if !ok {
				continue
			}
			other := got.Snapshot()[i].(*nn.Dense)
			assert.Equal(t, d.Weight.Data(), other.Weight.Data(), "workers=%d stage %d", workers, i)
			assert.Equal(t, d.Bias.Data(), other.Bias.Data(), "workers=%d stage %d", workers, i)
		}
	}
}

func TestFit_Cancelled(t *testing.T) {
	net := classifier(t, nn.DefaultHyper(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Fit(ctx, net, loader.NewSynthetic(1000, 10, 3, 32, 1), nil, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Epochs)
	assert.NotEqual(t, uuid.Nil, report.RunID)
}

func TestFit_MissingNormalize(t *testing.T) {
	net := nn.New(nn.DefaultHyper())
	require.NoError(t, net.AddLayer(nn.KindAffine, 3, 10))

	_, err := Fit(context.Background(), net, loader.NewSynthetic(100, 10, 3, 32, 1), nil, Options{})
	assert.ErrorIs(t, err, nn.ErrMissingNormalize)
}

func TestFit_ShapeMismatch(t *testing.T) {
	net := classifier(t, nn.DefaultHyper(), 1)

	_, err := Fit(context.Background(), net, loader.NewSynthetic(100, 4, 3, 32, 1), nil, Options{Epochs: 1})
	assert.ErrorIs(t, err, nn.ErrResultMismatch)
}

func TestFit_LoaderError(t *testing.T) {
	net := classifier(t, nn.DefaultHyper(), 1)

	_, err := Fit(context.Background(), net, loader.NewSynthetic(100, 10, 3, 0, 1), nil, Options{Epochs: 1})
	assert.ErrorIs(t, err, loader.ErrInvalidShape)
}

// closeFailing is a synthetic loader whose Close reports an I/O error.
type closeFailing struct {
	*loader.Synthetic
	closed int
}

func (c *closeFailing) Close() error {
	c.closed++
	_ = c.Synthetic.Close()
	return &loader.IOError{Op: "close", Path: "data", Err: errors.New("disk gone")}
}

func TestFit_CloseError(t *testing.T) {
	net := classifier(t, nn.DefaultHyper(), 1)
	data := &closeFailing{Synthetic: loader.NewSynthetic(64, 10, 3, 32, 1)}

	report, err := Fit(context.Background(), net, data, nil, Options{Epochs: 2})
	var ioErr *loader.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "close", ioErr.Op)
	assert.Equal(t, 1, data.closed)
	assert.Empty(t, report.Epochs)

	// A failed pass reports its own error, not the close failure.
	bad := &closeFailing{Synthetic: loader.NewSynthetic(64, 4, 3, 32, 1)}
	_, err = Evaluate(context.Background(), net, bad, Options{})
	assert.ErrorIs(t, err, nn.ErrResultMismatch)
	assert.Equal(t, 1, bad.closed)
}

func TestFit_LogsAndProfiles(t *testing.T) {
	var buf bytes.Buffer
	prof := profiler.New()
	net := classifier(t, nn.DefaultHyper(), 1)

	report, err := Fit(context.Background(), net,
		loader.NewSynthetic(320, 10, 3, 32, 1), loader.NewSynthetic(64, 10, 3, 32, 2),
		Options{
			Epochs:   2,
			Workers:  2,
			Schedule: optim.Constant(0.05),
			Logger:   log.New(&buf, "", 0),
			Profiler: prof,
		})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run="+report.RunID.String())
	assert.Contains(t, out, "epoch=0 lr=0.05000")
	assert.Contains(t, out, "epoch=1")

	calls := map[string]int{}
	for _, e := range prof.Report() {
		calls[e.Name] = e.Calls
	}
	assert.Equal(t, 2, calls["train"])
	assert.Equal(t, 2, calls["eval"])
	assert.Equal(t, 2*10+2*2, calls["batch"])
}

func TestEvaluate(t *testing.T) {
	net := classifier(t, nn.DefaultHyper(), 1)

	totals, err := Evaluate(context.Background(), net, loader.NewSynthetic(100, 10, 3, 32, 4), Options{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, 100, totals.Items)
	assert.GreaterOrEqual(t, totals.Correct, 0)
	assert.LessOrEqual(t, totals.Correct, 100)
	assert.Positive(t, totals.MeanLoss())
}

func TestPolicy_Parse(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"", Hogwild},
		{"hogwild", Hogwild},
		{"Serialized", Serialized},
		{" serialized ", Serialized},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePolicy("locked")
	assert.Error(t, err)
	assert.Equal(t, "serialized", Serialized.String())
	assert.Equal(t, "Policy(9)", Policy(9).String())
}

func TestTotals(t *testing.T) {
	var totals Totals
	assert.Zero(t, totals.Accuracy())
	assert.Zero(t, totals.MeanLoss())

	totals.record(batchStats{items: 4, correct: 3, loss: 2})
	totals.record(batchStats{items: 4, correct: 1, loss: 2})
	assert.Equal(t, 0.5, totals.Accuracy())
	assert.Equal(t, 0.5, totals.MeanLoss())
}
