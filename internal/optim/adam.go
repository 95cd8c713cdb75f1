package optim

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Adam implements the Adam (Adaptive Moment Estimation) update rule.
//
// Update rule, with rate drawn from the schedule once per call:
//
//	t     = t + 1
//	m     = beta1 * m + (1-beta1) * gradient        // First moment
//	s     = beta2 * s + (1-beta2) * gradient²       // Second moment
//	m_hat = m / (1 - beta1^t)                       // Bias correction
//	s_hat = s / (1 - beta2^t)                       // Bias correction
//	delta = -rate * m_hat / (sqrt(s_hat) + eps)
//
// Moments start at zero. Gradients are full-batch unless BatchSize is set.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	descent
	beta1     float64
	beta2     float64
	eps       float64
	batchSize int
	t         int           // Timestep for bias correction
	m         *mat.VecDense // First moment estimates
	s         *mat.VecDense // Second moment estimates
}

// AdamConfig holds configuration for Adam.
type AdamConfig struct {
	Config
	Beta1     float64 // First moment decay (default: 0.9)
	Beta2     float64 // Second moment decay (default: 0.999)
	Eps       float64 // Term for numerical stability (default: 1e-8)
	BatchSize int     // Mini-batch size; 0 uses the full batch
}

// NewAdam creates a new Adam descent.
//
// Default hyperparameters:
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(config AdamConfig) (*Adam, error) {
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	if config.Beta1 < 0 || config.Beta1 >= 1 {
		return nil, errors.WithStack(invalidArgument("beta1", config.Beta1, "outside allowed range (0, 1)"))
	}
	if config.Beta2 < 0 || config.Beta2 >= 1 {
		return nil, errors.WithStack(invalidArgument("beta2", config.Beta2, "outside allowed range (0, 1)"))
	}
	if config.Eps < 0 {
		return nil, errors.WithStack(invalidArgument("eps", config.Eps, "outside allowed range (0, Inf)"))
	}
	if config.BatchSize < 0 {
		return nil, errors.WithStack(invalidArgument("batch_size", config.BatchSize, "outside allowed range [0, Inf)"))
	}
	base, err := newDescent(config.Config)
	if err != nil {
		return nil, err
	}
	return &Adam{
		descent:   base,
		beta1:     config.Beta1,
		beta2:     config.Beta2,
		eps:       config.Eps,
		batchSize: config.BatchSize,
		m:         mat.NewVecDense(config.Dimension, nil),
		s:         mat.NewVecDense(config.Dimension, nil),
	}, nil
}

// CalcGradient returns the full-batch or mini-batch gradient.
func (a *Adam) CalcGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return a.gradient(X, y, a.batchSize)
}

// UpdateWeights performs the Adam update:
//  1. Update biased first moment estimate
//  2. Update biased second moment estimate
//  3. Compute bias-corrected moment estimates
//  4. Apply the delta to the weights
func (a *Adam) UpdateWeights(gradient mat.Vector) (*mat.VecDense, error) {
	if err := a.checkVector("gradient", gradient); err != nil {
		return nil, err
	}
	rate := a.lr.Next()
	a.t++

	biasCorrection1 := 1 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1 - math.Pow(a.beta2, float64(a.t))

	delta := mat.NewVecDense(gradient.Len(), nil)
	for i := 0; i < gradient.Len(); i++ {
		g := gradient.AtVec(i)

		m := a.beta1*a.m.AtVec(i) + (1-a.beta1)*g
		s := a.beta2*a.s.AtVec(i) + (1-a.beta2)*g*g
		a.m.SetVec(i, m)
		a.s.SetVec(i, s)

		mHat := m / biasCorrection1
		sHat := s / biasCorrection2
		delta.SetVec(i, -rate*mHat/(math.Sqrt(sHat)+a.eps))
	}
	a.apply(delta)
	return delta, nil
}

// Step performs one Adam iteration.
func (a *Adam) Step(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return step(a, X, y)
}

// Timestep returns the number of updates applied so far.
func (a *Adam) Timestep() int {
	return a.t
}
