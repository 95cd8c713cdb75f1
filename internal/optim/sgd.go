package optim

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// VanillaGradientDescent implements full-batch gradient descent.
//
// Gradient (MSE, residual = prediction - target):
//
//	gradient = 2 * Xᵗ(X·w - y)
//
// Update rule, with rate drawn from the schedule once per call:
//
//	delta = -rate * gradient
//	w     = w + delta
//
// Example:
//
//	d, _ := optim.NewVanillaGradientDescent(optim.Config{
//	    Dimension: 2,
//	    Lambda:    0.1,
//	    S0:        1,
//	    P:         0.5,
//	})
//	delta, err := d.Step(X, y)
type VanillaGradientDescent struct {
	descent
}

// NewVanillaGradientDescent creates a full-batch gradient descent.
func NewVanillaGradientDescent(config Config) (*VanillaGradientDescent, error) {
	base, err := newDescent(config)
	if err != nil {
		return nil, err
	}
	return &VanillaGradientDescent{descent: base}, nil
}

// CalcGradient returns 2 * Xᵗ(X·w - y).
func (v *VanillaGradientDescent) CalcGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return v.fullGradient(X, y)
}

// UpdateWeights applies delta = -rate * gradient.
func (v *VanillaGradientDescent) UpdateWeights(gradient mat.Vector) (*mat.VecDense, error) {
	if err := v.checkVector("gradient", gradient); err != nil {
		return nil, err
	}
	delta := mat.NewVecDense(gradient.Len(), nil)
	delta.ScaleVec(-v.lr.Next(), gradient)
	v.apply(delta)
	return delta, nil
}

// Step performs one full-batch iteration.
func (v *VanillaGradientDescent) Step(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return step(v, X, y)
}

// StochasticDescent implements mini-batch stochastic gradient descent.
//
// Each gradient is computed on batchSize rows sampled uniformly without
// replacement from the full dataset:
//
//	gradient = (2 / batchSize) * X_Bᵗ(X_B·w - y_B)
//
// The update rule is the same as VanillaGradientDescent. A batch size larger
// than the number of rows fails with ErrInvalidConfiguration.
type StochasticDescent struct {
	VanillaGradientDescent
	batchSize int
}

// StochasticConfig holds configuration for StochasticDescent.
type StochasticConfig struct {
	Config
	BatchSize int // Rows per mini-batch (default: 50)
}

// DefaultBatchSize is used when StochasticConfig.BatchSize is zero.
const DefaultBatchSize = 50

// NewStochasticDescent creates a mini-batch stochastic gradient descent.
func NewStochasticDescent(config StochasticConfig) (*StochasticDescent, error) {
	if config.BatchSize == 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.BatchSize < 0 {
		return nil, errors.WithStack(invalidArgument("batch_size", config.BatchSize, "outside allowed range [1, Inf)"))
	}
	base, err := newDescent(config.Config)
	if err != nil {
		return nil, err
	}
	return &StochasticDescent{
		VanillaGradientDescent: VanillaGradientDescent{descent: base},
		batchSize:              config.BatchSize,
	}, nil
}

// CalcGradient returns the mini-batch gradient estimate.
func (s *StochasticDescent) CalcGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return s.miniBatchGradient(X, y, s.batchSize)
}

// Step performs one mini-batch iteration.
func (s *StochasticDescent) Step(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return step(s, X, y)
}

// BatchSize returns the configured mini-batch size.
func (s *StochasticDescent) BatchSize() int {
	return s.batchSize
}
