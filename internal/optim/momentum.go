package optim

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MomentumDescent implements gradient descent with an exponentially smoothed
// velocity.
//
// Update rule:
//
//	velocity = beta * velocity + (1 - beta) * rate * gradient
//	delta    = -velocity
//
// The velocity starts at zero and lives as long as the instance. Gradients are
// full-batch unless BatchSize is set, in which case the stochastic mini-batch
// rule is used.
type MomentumDescent struct {
	descent
	beta      float64
	batchSize int
	velocity  *mat.VecDense
}

// MomentumConfig holds configuration for MomentumDescent.
type MomentumConfig struct {
	Config
	Beta      float64 // Smoothing factor (default: 0.9, range: (0, 1))
	BatchSize int     // Mini-batch size; 0 uses the full batch
}

// DefaultMomentumBeta is used when MomentumConfig.Beta is zero.
const DefaultMomentumBeta = 0.9

// NewMomentumDescent creates a momentum descent.
func NewMomentumDescent(config MomentumConfig) (*MomentumDescent, error) {
	if config.Beta == 0 {
		config.Beta = DefaultMomentumBeta
	}
	if config.Beta < 0 || config.Beta >= 1 {
		return nil, errors.WithStack(invalidArgument("beta", config.Beta, "outside allowed range (0, 1)"))
	}
	if config.BatchSize < 0 {
		return nil, errors.WithStack(invalidArgument("batch_size", config.BatchSize, "outside allowed range [0, Inf)"))
	}
	base, err := newDescent(config.Config)
	if err != nil {
		return nil, err
	}
	return &MomentumDescent{
		descent:   base,
		beta:      config.Beta,
		batchSize: config.BatchSize,
		velocity:  mat.NewVecDense(config.Dimension, nil),
	}, nil
}

// CalcGradient returns the full-batch or mini-batch gradient.
func (m *MomentumDescent) CalcGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return m.gradient(X, y, m.batchSize)
}

// UpdateWeights folds the gradient into the velocity and applies -velocity.
func (m *MomentumDescent) UpdateWeights(gradient mat.Vector) (*mat.VecDense, error) {
	if err := m.checkVector("gradient", gradient); err != nil {
		return nil, err
	}
	rate := m.lr.Next()

	// velocity = beta * velocity + (1 - beta) * rate * gradient
	m.velocity.ScaleVec(m.beta, m.velocity)
	m.velocity.AddScaledVec(m.velocity, (1-m.beta)*rate, gradient)

	delta := mat.NewVecDense(m.velocity.Len(), nil)
	delta.ScaleVec(-1, m.velocity)
	m.apply(delta)
	return delta, nil
}

// Step performs one momentum iteration.
func (m *MomentumDescent) Step(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return step(m, X, y)
}

// Velocity returns a copy of the current velocity.
func (m *MomentumDescent) Velocity() *mat.VecDense {
	return mat.VecDenseCopyOf(m.velocity)
}

// Beta returns the smoothing factor.
func (m *MomentumDescent) Beta() float64 {
	return m.beta
}
