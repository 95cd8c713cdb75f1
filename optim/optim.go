// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/descent/internal/optim"
)

// Descent interface defines the common contract for all gradient rules.
type Descent = optim.Descent

// Config represents the base configuration shared by all descents.
type Config = optim.Config

// DefaultConfig returns the default configuration for the given dimension.
func DefaultConfig(dimension int) Config {
	return optim.DefaultConfig(dimension)
}

// Learning rate schedule

// LearningRate is the lambda * (s0/(s0+t))^p step-size schedule.
type LearningRate = optim.LearningRate

// NewLearningRate creates a learning rate schedule.
func NewLearningRate(lambda, s0, p float64) (*LearningRate, error) {
	return optim.NewLearningRate(lambda, s0, p)
}

// Loss functions

// LossFunction selects the loss reported by CalcLoss.
type LossFunction = optim.LossFunction

// Supported loss functions.
const (
	MSE     = optim.MSE
	MAE     = optim.MAE
	LogCosh = optim.LogCosh
	Huber   = optim.Huber
)

// ParseLossFunction converts a loss function name into a LossFunction.
func ParseLossFunction(name string) (LossFunction, error) {
	return optim.ParseLossFunction(name)
}

// Full-batch and stochastic gradient descent

// VanillaGradientDescent represents full-batch gradient descent.
type VanillaGradientDescent = optim.VanillaGradientDescent

// NewVanillaGradientDescent creates a full-batch gradient descent.
//
// Example:
//
//	config := optim.DefaultConfig(2)
//	config.Lambda = 0.1
//	d, err := optim.NewVanillaGradientDescent(config)
func NewVanillaGradientDescent(config Config) (*VanillaGradientDescent, error) {
	return optim.NewVanillaGradientDescent(config)
}

// StochasticDescent represents mini-batch stochastic gradient descent.
type StochasticDescent = optim.StochasticDescent

// StochasticConfig contains configuration for StochasticDescent.
type StochasticConfig = optim.StochasticConfig

// NewStochasticDescent creates a mini-batch stochastic gradient descent.
func NewStochasticDescent(config StochasticConfig) (*StochasticDescent, error) {
	return optim.NewStochasticDescent(config)
}

// Momentum

// MomentumDescent represents gradient descent with velocity.
type MomentumDescent = optim.MomentumDescent

// MomentumConfig contains configuration for MomentumDescent.
type MomentumConfig = optim.MomentumConfig

// NewMomentumDescent creates a momentum descent.
//
// Example:
//
//	d, err := optim.NewMomentumDescent(optim.MomentumConfig{
//	    Config: optim.DefaultConfig(8),
//	    Beta:   0.9,
//	})
func NewMomentumDescent(config MomentumConfig) (*MomentumDescent, error) {
	return optim.NewMomentumDescent(config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam descent.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam descent with bias correction.
//
// Example:
//
//	d, err := optim.NewAdam(optim.AdamConfig{
//	    Config: optim.DefaultConfig(8),
//	    Beta1:  0.9,
//	    Beta2:  0.999,
//	    Eps:    1e-8,
//	})
func NewAdam(config AdamConfig) (*Adam, error) {
	return optim.NewAdam(config)
}

// Regularization

// Regularized wraps a Descent with an L2 penalty.
type Regularized = optim.Regularized

// NewRegularized wraps inner with an L2 penalty of coefficient mu.
func NewRegularized(inner Descent, mu float64) (*Regularized, error) {
	return optim.NewRegularized(inner, mu)
}

// Factory

// DescentConfig selects and parameterizes a descent.
type DescentConfig = optim.DescentConfig

// FromConfig builds the descent named by config.
//
// Example:
//
//	d, err := optim.FromConfig(optim.DescentConfig{
//	    DescentName: "adam",
//	    Regularized: true,
//	    Kwargs:      map[string]any{"dimension": 8, "lambda_": 0.01, "mu": 0.1},
//	})
func FromConfig(config DescentConfig) (Descent, error) {
	return optim.FromConfig(config)
}

// Errors

// Sentinel errors; match with errors.Is.
var (
	ErrDimensionMismatch    = optim.ErrDimensionMismatch
	ErrInvalidConfiguration = optim.ErrInvalidConfiguration
	ErrUnknownDescentName   = optim.ErrUnknownDescentName
)
