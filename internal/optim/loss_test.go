package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/descent/internal/optim"
)

func TestLossFunction_Compute(t *testing.T) {
	pred := vec(1, 2, 3, 4)
	target := vec(1, 3, 1, 4.5)
	// residuals (target - pred): 0, 1, -2, 0.5

	tests := map[string]struct {
		kind     optim.LossFunction
		expected float64
	}{
		"mse": {
			kind:     optim.MSE,
			expected: (0 + 1 + 4 + 0.25) / 4,
		},
		"mae": {
			kind:     optim.MAE,
			expected: (0 + 1 + 2 + 0.5) / 4,
		},
		"log cosh": {
			kind:     optim.LogCosh,
			expected: (math.Log(math.Cosh(0)) + math.Log(math.Cosh(1)) + math.Log(math.Cosh(2)) + math.Log(math.Cosh(0.5))) / 4,
		},
		"huber": {
			kind: optim.Huber,
			// delta = 1: 0, 0.5, 1*(2-0.5), 0.125
			expected: (0 + 0.5 + 1.5 + 0.125) / 4,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, tc.kind.Compute(pred, target, optim.DefaultHuberDelta), 1e-12)
		})
	}
}

func TestLossFunction_LogCoshLargeResidual(t *testing.T) {
	loss := optim.LogCosh.Compute(vec(0), vec(1000), optim.DefaultHuberDelta)
	assert.False(t, math.IsInf(loss, 0))
	assert.InDelta(t, 1000-math.Ln2, loss, 1e-9)
}

func TestLossFunction_MSENonNegative(t *testing.T) {
	d, err := optim.NewVanillaGradientDescent(testConfig(2))
	require.NoError(t, err)

	X, y := sampleData()
	for i := 0; i < 20; i++ {
		loss, err := d.CalcLoss(X, y)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, loss, 0.0)
		_, err = d.Step(X, y)
		require.NoError(t, err)
	}
}

func TestLossFunction_ReportedLoss(t *testing.T) {
	config := testConfig(2)
	config.LossFunction = optim.MAE
	d, err := optim.NewVanillaGradientDescent(config)
	require.NoError(t, err)
	require.NoError(t, d.SetWeights(vec(0, 0)))

	X := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	loss, err := d.CalcLoss(X, vec(1, -3))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, loss, 1e-12)
	assert.Equal(t, optim.MAE, d.LossFunction())
}

func TestParseLossFunction(t *testing.T) {
	tests := map[string]optim.LossFunction{
		"mse":      optim.MSE,
		"MSE":      optim.MSE,
		"mae":      optim.MAE,
		"LogCosh":  optim.LogCosh,
		"log_cosh": optim.LogCosh,
		"log-cosh": optim.LogCosh,
		"Huber":    optim.Huber,
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			kind, err := optim.ParseLossFunction(input)
			require.NoError(t, err)
			assert.Equal(t, expected, kind)
		})
	}

	_, err := optim.ParseLossFunction("hinge")
	assert.ErrorIs(t, err, optim.ErrInvalidConfiguration)
}

func TestLossFunction_IsValid(t *testing.T) {
	for _, loss := range []optim.LossFunction{optim.MSE, optim.MAE, optim.LogCosh, optim.Huber} {
		assert.True(t, loss.IsValid(), loss.String())
	}
	assert.False(t, optim.LossFunction(7).IsValid())
	assert.False(t, optim.LossFunction(-1).IsValid())
}

func TestLossFunction_String(t *testing.T) {
	assert.Equal(t, "log_cosh", optim.LogCosh.String())
	assert.Equal(t, "LossFunction(9)", optim.LossFunction(9).String())
}
