package optim

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Regularized decorates a Descent with an L2 penalty.
//
//	gradient = inner.CalcGradient(X, y) + mu * 2w
//
// Every other operation, including UpdateWeights and any auxiliary optimizer
// state, is delegated to the wrapped descent unchanged. With mu = 0 the
// decorator behaves exactly like the wrapped descent.
type Regularized struct {
	Descent
	mu float64
}

// NewRegularized wraps inner with an L2 penalty of coefficient mu.
//
// Returns ErrInvalidConfiguration if mu is negative.
func NewRegularized(inner Descent, mu float64) (*Regularized, error) {
	if inner == nil {
		return nil, errors.WithStack(invalidArgument("inner", inner, "descent must not be nil"))
	}
	if mu < 0 {
		return nil, errors.WithStack(invalidArgument("mu", mu, "outside allowed range [0, Inf)"))
	}
	return &Regularized{Descent: inner, mu: mu}, nil
}

// CalcGradient adds the L2 penalty gradient to the wrapped gradient.
func (r *Regularized) CalcGradient(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	grad, err := r.Descent.CalcGradient(X, y)
	if err != nil {
		return nil, err
	}
	grad.AddScaledVec(grad, r.mu, l2Gradient(r.Descent.Weights()))
	return grad, nil
}

// Step performs one iteration using the regularized gradient and the wrapped
// update rule.
func (r *Regularized) Step(X mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	return step(r, X, y)
}

// Mu returns the regularization coefficient.
func (r *Regularized) Mu() float64 {
	return r.mu
}

// Unwrap returns the decorated descent.
func (r *Regularized) Unwrap() Descent {
	return r.Descent
}

// l2Gradient returns 2w, the gradient of ||w||².
func l2Gradient(w *mat.VecDense) *mat.VecDense {
	w.ScaleVec(2, w)
	return w
}
