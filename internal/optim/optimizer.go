// Package optim implements first-order descent algorithms that fit the weight
// vector of a linear predictor y_hat = X·w.
//
// This package provides:
//   - Descent interface: the shared predict/loss/gradient/update contract
//   - LearningRate: the lambda * (s0/(s0+t))^p step-size schedule
//   - VanillaGradientDescent: full-batch gradient
//   - StochasticDescent: uniformly sampled mini-batch gradient
//   - MomentumDescent: velocity-smoothed updates
//   - Adam: bias-corrected adaptive moment updates
//   - Regularized: L2 penalty decorator around any of the above
//   - FromConfig: factory mapping a named configuration to an instance
//
// Example usage:
//
//	d, err := optim.NewVanillaGradientDescent(optim.DefaultConfig(2))
//	if err != nil {
//	    return err
//	}
//
//	for range iterations {
//	    if _, err := d.Step(X, y); err != nil {
//	        return err
//	    }
//	}
//
// A Descent instance is not safe for concurrent use. Callers sharing one
// instance between goroutines must serialize calls to Step and UpdateWeights.
package optim

import (
	"math/rand/v2"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Descent is the contract shared by every gradient rule.
//
// All implementations must provide:
//   - Predict / CalcLoss: pure functions of the current weights
//   - CalcGradient: the rule-specific gradient of the loss
//   - UpdateWeights: turn a gradient into a weight delta and apply it
//   - Step: UpdateWeights(CalcGradient(X, y))
type Descent interface {
	// Predict returns X·w.
	Predict(X mat.Matrix) (*mat.VecDense, error)

	// CalcLoss returns the configured loss between Predict(X) and y.
	CalcLoss(X mat.Matrix, y mat.Vector) (float64, error)

	// CalcGradient returns the gradient of the loss with respect to w.
	// The result has length Dimension().
	CalcGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error)

	// UpdateWeights computes w_{k+1} - w_k from gradient, applies it to w in
	// place and returns it.
	UpdateWeights(gradient mat.Vector) (*mat.VecDense, error)

	// Step performs one full descent iteration and returns the applied delta.
	//
	// Inputs are validated before anything is mutated; on error the weights,
	// schedule and optimizer state are unchanged.
	Step(X mat.Matrix, y mat.Vector) (*mat.VecDense, error)

	// Weights returns a copy of the current weight vector.
	Weights() *mat.VecDense

	// SetWeights overwrites the weight vector (warm start).
	SetWeights(w mat.Vector) error

	// Dimension returns the feature dimension d.
	Dimension() int

	// LearningRate returns the step-size schedule owned by this instance.
	LearningRate() *LearningRate
}

// Config is the base configuration shared by all descent variants.
//
// Zero S0, HuberDelta and LossFunction take their defaults, so
// Config{Dimension: d, Lambda: l} is usable as is. FromConfig still rejects
// an explicit s0 <= 0. P has no fallback because
// zero is a meaningful value; start from DefaultConfig for the decaying
// schedule.
type Config struct {
	Dimension    int          // Feature space dimension (must be > 0)
	Lambda       float64      // Base learning rate (must be > 0)
	S0           float64      // Schedule decay offset (default: 1, must be > 0)
	P            float64      // Schedule decay power, range [0, 1]; 0 keeps the rate constant
	LossFunction LossFunction // Reported loss (default: MSE)
	HuberDelta   float64      // Huber threshold (default: 1.0)
	Seed         uint64       // RNG seed for weight init and sampling; 0 picks a time-based seed
}

// DefaultConfig returns the default configuration for the given dimension.
//
// Default hyperparameters:
//   - Lambda: 1e-3
//   - S0: 1
//   - P: 0.5
//   - LossFunction: MSE
//   - HuberDelta: 1.0
func DefaultConfig(dimension int) Config {
	return Config{
		Dimension:    dimension,
		Lambda:       1e-3,
		S0:           1,
		P:            0.5,
		LossFunction: MSE,
		HuberDelta:   DefaultHuberDelta,
	}
}

// descent holds the state every variant owns: weights, schedule, loss
// selection and the random source.
type descent struct {
	w            *mat.VecDense
	lr           *LearningRate
	lossFunction LossFunction
	huberDelta   float64
	rng          *rand.Rand
}

func newDescent(config Config) (descent, error) {
	if config.Dimension <= 0 {
		return descent{}, errors.WithStack(invalidArgument("dimension", config.Dimension, "outside allowed range (0, Inf)"))
	}
	if !config.LossFunction.IsValid() {
		return descent{}, errors.WithStack(invalidArgument("loss_function", config.LossFunction, "unsupported loss function"))
	}
	if config.HuberDelta == 0 {
		config.HuberDelta = DefaultHuberDelta
	}
	if config.HuberDelta < 0 {
		return descent{}, errors.WithStack(invalidArgument("huber_delta", config.HuberDelta, "outside allowed range (0, Inf)"))
	}
	if config.S0 == 0 {
		config.S0 = 1
	}
	lr, err := NewLearningRate(config.Lambda, config.S0, config.P)
	if err != nil {
		return descent{}, err
	}

	rng := newRand(config.Seed)
	data := make([]float64, config.Dimension)
	for i := range data {
		data[i] = rng.Float64()
	}

	return descent{
		w:            mat.NewVecDense(config.Dimension, data),
		lr:           lr,
		lossFunction: config.LossFunction,
		huberDelta:   config.HuberDelta,
		rng:          rng,
	}, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	//nolint:gosec // Deterministic, seedable source for reproducible training
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Predict returns X·w.
func (d *descent) Predict(X mat.Matrix) (*mat.VecDense, error) {
	if err := d.checkFeatures(X); err != nil {
		return nil, err
	}
	n, _ := X.Dims()
	pred := mat.NewVecDense(n, nil)
	pred.MulVec(X, d.w)
	return pred, nil
}

// CalcLoss returns the configured loss of the current weights on (X, y).
func (d *descent) CalcLoss(X mat.Matrix, y mat.Vector) (float64, error) {
	if err := d.checkSamples(X, y); err != nil {
		return 0, err
	}
	pred, err := d.Predict(X)
	if err != nil {
		return 0, err
	}
	return d.lossFunction.Compute(pred, y, d.huberDelta), nil
}

// Weights returns a copy of the current weight vector.
func (d *descent) Weights() *mat.VecDense {
	return mat.VecDenseCopyOf(d.w)
}

// SetWeights overwrites the weight vector.
func (d *descent) SetWeights(w mat.Vector) error {
	if err := d.checkVector("weights", w); err != nil {
		return err
	}
	d.w.CopyVec(w)
	return nil
}

// Dimension returns the feature dimension.
func (d *descent) Dimension() int {
	return d.w.Len()
}

// LearningRate returns the schedule.
func (d *descent) LearningRate() *LearningRate {
	return d.lr
}

// LossFunction returns the loss reported by CalcLoss.
func (d *descent) LossFunction() LossFunction {
	return d.lossFunction
}

// gradient dispatches to the full-batch rule when batchSize is 0 and to the
// mini-batch rule otherwise.
func (d *descent) gradient(X mat.Matrix, y mat.Vector, batchSize int) (*mat.VecDense, error) {
	if batchSize == 0 {
		return d.fullGradient(X, y)
	}
	return d.miniBatchGradient(X, y, batchSize)
}

// fullGradient computes 2 * Xᵗ(X·w - y).
func (d *descent) fullGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	if err := d.checkSamples(X, y); err != nil {
		return nil, err
	}
	n, _ := X.Dims()

	residual := mat.NewVecDense(n, nil)
	residual.MulVec(X, d.w)
	residual.SubVec(residual, y)

	grad := mat.NewVecDense(d.w.Len(), nil)
	grad.MulVec(X.T(), residual)
	grad.ScaleVec(2, grad)
	return grad, nil
}

// miniBatchGradient draws batchSize distinct rows uniformly from X and returns
//
//	(2 / batchSize) * X_Bᵗ(X_B·w - y_B)
//
// an unbiased estimate of the per-sample mean gradient.
func (d *descent) miniBatchGradient(X mat.Matrix, y mat.Vector, batchSize int) (*mat.VecDense, error) {
	if err := d.checkSamples(X, y); err != nil {
		return nil, err
	}
	n, dim := X.Dims()
	if batchSize <= 0 || batchSize > n {
		return nil, errors.WithStack(invalidArgument("batch_size", batchSize, "outside allowed range [1, n_samples]"))
	}

	weights := d.w.RawVector().Data
	grad := make([]float64, dim)
	row := make([]float64, dim)
	for _, i := range d.rng.Perm(n)[:batchSize] {
		mat.Row(row, i, X)
		residual := floats.Dot(row, weights) - y.AtVec(i)
		floats.AddScaled(grad, 2*residual, row)
	}
	floats.Scale(1/float64(batchSize), grad)
	return mat.NewVecDense(dim, grad), nil
}

// apply adds delta to the weights.
func (d *descent) apply(delta mat.Vector) {
	d.w.AddVec(d.w, delta)
}

func (d *descent) checkFeatures(X mat.Matrix) error {
	if _, c := X.Dims(); c != d.w.Len() {
		return &DimensionMismatchError{Operand: "X columns", Expected: d.w.Len(), Actual: c}
	}
	return nil
}

func (d *descent) checkSamples(X mat.Matrix, y mat.Vector) error {
	if err := d.checkFeatures(X); err != nil {
		return err
	}
	if r, _ := X.Dims(); r != y.Len() {
		return &DimensionMismatchError{Operand: "y length", Expected: r, Actual: y.Len()}
	}
	return nil
}

func (d *descent) checkVector(operand string, v mat.Vector) error {
	if v.Len() != d.w.Len() {
		return &DimensionMismatchError{Operand: operand, Expected: d.w.Len(), Actual: v.Len()}
	}
	return nil
}

// step composes UpdateWeights(CalcGradient(X, y)) through the interface so
// that decorators overriding CalcGradient are honoured.
func step(d Descent, X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	grad, err := d.CalcGradient(X, y)
	if err != nil {
		return nil, err
	}
	return d.UpdateWeights(grad)
}
