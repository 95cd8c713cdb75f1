package optim_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/descent/internal/optim"
)

func TestFromConfig(t *testing.T) {
	kwargs := map[string]any{"dimension": 3, "lambda_": 0.01, "seed": 1}

	tests := map[string]struct {
		config   optim.DescentConfig
		expected any
	}{
		"default name": {
			config:   optim.DescentConfig{Kwargs: kwargs},
			expected: &optim.VanillaGradientDescent{},
		},
		"full": {
			config:   optim.DescentConfig{DescentName: "full", Kwargs: kwargs},
			expected: &optim.VanillaGradientDescent{},
		},
		"stochastic": {
			config:   optim.DescentConfig{DescentName: "stochastic", Kwargs: kwargs},
			expected: &optim.StochasticDescent{},
		},
		"momentum": {
			config:   optim.DescentConfig{DescentName: "momentum", Kwargs: kwargs},
			expected: &optim.MomentumDescent{},
		},
		"adam": {
			config:   optim.DescentConfig{DescentName: "adam", Kwargs: kwargs},
			expected: &optim.Adam{},
		},
		"regularized adam": {
			config:   optim.DescentConfig{DescentName: "adam", Regularized: true, Kwargs: kwargs},
			expected: &optim.Regularized{},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := optim.FromConfig(tc.config)
			require.NoError(t, err)
			assert.IsType(t, tc.expected, d)
			assert.Equal(t, 3, d.Dimension())
			assert.Equal(t, 0.01, d.LearningRate().Lambda())
		})
	}
}

func TestFromConfig_UnknownName(t *testing.T) {
	_, err := optim.FromConfig(optim.DescentConfig{DescentName: "bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, optim.ErrUnknownDescentName)
	assert.Contains(t, err.Error(), "{full, stochastic, momentum, adam}")

	var unknown *optim.UnknownDescentNameError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "bogus", unknown.Name)
	assert.Equal(t, []string{"full", "stochastic", "momentum", "adam"}, unknown.Valid)
}

func TestFromConfig_VariantParameters(t *testing.T) {
	d, err := optim.FromConfig(optim.DescentConfig{
		DescentName: "stochastic",
		Regularized: true,
		Kwargs: map[string]any{
			"dimension":     2,
			"batch_size":    8,
			"mu":            0.25,
			"loss_function": "huber",
			"huber_delta":   2.0,
		},
	})
	require.NoError(t, err)

	reg, ok := d.(*optim.Regularized)
	require.True(t, ok)
	assert.Equal(t, 0.25, reg.Mu())

	stochastic, ok := reg.Unwrap().(*optim.StochasticDescent)
	require.True(t, ok)
	assert.Equal(t, 8, stochastic.BatchSize())
	assert.Equal(t, optim.Huber, stochastic.LossFunction())

	m, err := optim.FromConfig(optim.DescentConfig{
		DescentName: "momentum",
		Kwargs:      map[string]any{"dimension": 2, "beta": 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.(*optim.MomentumDescent).Beta())
}

func TestFromConfig_JSONKwargs(t *testing.T) {
	raw := `{
		"descent_name": "adam",
		"regularized": false,
		"kwargs": {"dimension": 4, "lambda_": 0.05, "beta1": 0.8, "eps": 1e-6, "seed": 9}
	}`

	var generic map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &generic))

	config := optim.DescentConfig{
		DescentName: generic["descent_name"].(string),
		Regularized: generic["regularized"].(bool),
		Kwargs:      generic["kwargs"].(map[string]any),
	}
	d, err := optim.FromConfig(config)
	require.NoError(t, err)
	assert.IsType(t, &optim.Adam{}, d)
	assert.Equal(t, 4, d.Dimension())
}

func TestFromConfig_InvalidKwargs(t *testing.T) {
	tests := map[string]optim.DescentConfig{
		"beta on full": {
			DescentName: "full",
			Kwargs:      map[string]any{"dimension": 2, "beta": 0.9},
		},
		"mu without regularization": {
			DescentName: "momentum",
			Kwargs:      map[string]any{"dimension": 2, "mu": 0.1},
		},
		"unknown key": {
			DescentName: "adam",
			Kwargs:      map[string]any{"dimension": 2, "momentum": 0.1},
		},
		"bad loss function": {
			DescentName: "full",
			Kwargs:      map[string]any{"dimension": 2, "loss_function": "hinge"},
		},
		"negative mu": {
			DescentName: "full",
			Regularized: true,
			Kwargs:      map[string]any{"dimension": 2, "mu": -1},
		},
		"negative s0": {
			DescentName: "full",
			Kwargs:      map[string]any{"dimension": 2, "s0": -1},
		},
		"zero s0": {
			DescentName: "full",
			Kwargs:      map[string]any{"dimension": 2, "s0": 0},
		},
		"loss function out of range": {
			DescentName: "full",
			Kwargs:      map[string]any{"dimension": 2, "loss_function": 7},
		},
		"missing dimension": {
			DescentName: "full",
		},
	}
	for name, config := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := optim.FromConfig(config)
			assert.ErrorIs(t, err, optim.ErrInvalidConfiguration)
		})
	}
}

type lossName string

func TestFromConfig_LossFunctionKinds(t *testing.T) {
	tests := map[string]struct {
		value    any
		expected optim.LossFunction
	}{
		"name":         {value: "log_cosh", expected: optim.LogCosh},
		"named string": {value: lossName("mae"), expected: optim.MAE},
		"integer":      {value: 3, expected: optim.Huber},
		"constant":     {value: optim.MAE, expected: optim.MAE},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := optim.FromConfig(optim.DescentConfig{
				Kwargs: map[string]any{"dimension": 2, "loss_function": tc.value},
			})
			require.NoError(t, err)
			require.IsType(t, &optim.VanillaGradientDescent{}, d)
			assert.Equal(t, tc.expected, d.(*optim.VanillaGradientDescent).LossFunction())
		})
	}
}

func TestDescentConfig_Params(t *testing.T) {
	params, err := optim.DescentConfig{
		Kwargs: map[string]any{"dimension": 2, "huber_delta": 0.5},
	}.Params()
	require.NoError(t, err)
	assert.Equal(t, 0.5, params.HuberDelta)
	assert.Equal(t, optim.DefaultConfig(0).S0, params.S0)

	_, err = optim.DescentConfig{DescentName: "bogus"}.Params()
	assert.ErrorIs(t, err, optim.ErrUnknownDescentName)
	assert.Equal(t, optim.NameFull, optim.DescentConfig{}.Name())
}

func TestMustFromConfig(t *testing.T) {
	assert.Panics(t, func() {
		optim.MustFromConfig(optim.DescentConfig{DescentName: "bogus"})
	})
	assert.NotPanics(t, func() {
		optim.MustFromConfig(optim.DescentConfig{Kwargs: map[string]any{"dimension": 1}})
	})
}
