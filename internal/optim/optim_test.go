package optim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/densenet/internal/matrix"
	"github.com/born-ml/densenet/internal/nn"
)

func TestLinear_LR(t *testing.T) {
	tests := []struct {
		description string
		schedule    Linear
		epoch       int
		expected    float64
	}{
		{"first epoch", Linear{0.02, 0.001, 20}, 0, 0.02},
		{"last epoch", Linear{0.02, 0.001, 20}, 19, 0.001},
		{"midpoint", Linear{1, 0, 3}, 1, 0.5},
		{"past the end clamps", Linear{1, 0, 3}, 10, 0},
		{"negative clamps", Linear{1, 0, 3}, -1, 1},
		{"single epoch", Linear{0.5, 0.1, 1}, 0, 0.5},
		{"no epochs", Linear{0.5, 0.1, 0}, 3, 0.5},
		{"increasing", Linear{0, 1, 5}, 2, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.schedule.LR(tt.epoch), 1e-12)
		})
	}
}

func TestLinear_Monotonic(t *testing.T) {
	s := Linear{Initial: 0.02, Final: 0.001, Epochs: 20}
	for epoch := 1; epoch < 20; epoch++ {
		assert.Less(t, s.LR(epoch), s.LR(epoch-1), "epoch %d", epoch)
	}
}

func TestConstant_LR(t *testing.T) {
	c := Constant(0.3)
	assert.Equal(t, 0.3, c.LR(0))
	assert.Equal(t, 0.3, c.LR(100))
	assert.Equal(t, "constant(0.3)", c.String())
}

func TestNewSGD_DefaultSchedule(t *testing.T) {
	sgd := NewSGD(nil)
	assert.Equal(t, 0.01, sgd.LR(5))
}

func TestNewSGDFromHyper(t *testing.T) {
	h := nn.DefaultHyper()
	sgd := NewSGDFromHyper(h)
	assert.InDelta(t, h.InitialLR, sgd.LR(0), 1e-12)
	assert.InDelta(t, h.FinalLR, sgd.LR(h.Epochs-1), 1e-12)
}

func TestSGD_Step(t *testing.T) {
	net, err := nn.NewFromSizes([]int{3, 2}, nn.DefaultHyper(), nn.WithSeed(4))
	require.NoError(t, err)
	before := net.Snapshot()[0].(*nn.Dense).Bias.Clone()

	rng := rand.New(rand.NewSource(1))
	input := nn.Normal(3, 4, 1, rng)
	expected := matrix.FromSlice(2, 4, []float64{1, 0, 1, 0, 0, 1, 0, 1}, true)

	result := net.Forward(input)
	require.NoError(t, net.Backward(result, expected, false))

	sgd := NewSGD(Constant(0.5))
	require.NoError(t, sgd.Step(net, result, 0))

	after := net.Snapshot()[0].(*nn.Dense).Bias
	delta := result.Output().Sub(expected).RowMeans().Scale(0.5)
	assert.True(t, after.Equal(before.Sub(delta)))
}

func TestSGD_StepWithoutBackward(t *testing.T) {
	net, err := nn.NewFromSizes([]int{3, 2}, nn.DefaultHyper())
	require.NoError(t, err)

	result := net.Forward(matrix.New(3, 1))
	err = NewSGD(Constant(0.1)).Step(net, result, 0)
	assert.ErrorIs(t, err, nn.ErrNoGradients)
}
