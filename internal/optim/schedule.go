package optim

import (
	"math"

	"github.com/pkg/errors"
)

// LearningRate is a stateful step-size schedule.
//
// Each call to Next advances the iteration counter and returns
//
//	rate = lambda * (s0 / (s0 + iteration))^p
//
// evaluated with the counter after the increment, so the first value uses
// iteration = 1. With p = 0 the rate is constant; with p > 0 it decays
// strictly.
type LearningRate struct {
	lambda    float64
	s0        float64
	p         float64
	iteration int
}

// NewLearningRate creates a schedule with base rate lambda, decay offset s0 and
// decay power p.
//
// Returns ErrInvalidConfiguration if lambda <= 0, s0 <= 0 or p is outside [0, 1].
func NewLearningRate(lambda, s0, p float64) (*LearningRate, error) {
	if lambda <= 0 {
		return nil, errors.WithStack(invalidArgument("lambda_", lambda, "outside allowed range (0, Inf)"))
	}
	if s0 <= 0 {
		return nil, errors.WithStack(invalidArgument("s0", s0, "outside allowed range (0, Inf)"))
	}
	if p < 0 || p > 1 {
		return nil, errors.WithStack(invalidArgument("p", p, "outside allowed range [0, 1]"))
	}
	return &LearningRate{lambda: lambda, s0: s0, p: p}, nil
}

// MustNewLearningRate is like NewLearningRate but panics on error.
func MustNewLearningRate(lambda, s0, p float64) *LearningRate {
	lr, err := NewLearningRate(lambda, s0, p)
	if err != nil {
		panic(err)
	}
	return lr
}

// Next advances the schedule by one iteration and returns the step size.
func (lr *LearningRate) Next() float64 {
	lr.iteration++
	return lr.at(lr.iteration)
}

// Peek returns the value the next call to Next will produce without
// advancing the schedule.
func (lr *LearningRate) Peek() float64 {
	return lr.at(lr.iteration + 1)
}

// Iteration returns the number of times Next has been called.
func (lr *LearningRate) Iteration() int {
	return lr.iteration
}

// Lambda returns the base rate.
func (lr *LearningRate) Lambda() float64 {
	return lr.lambda
}

func (lr *LearningRate) at(iteration int) float64 {
	return lr.lambda * math.Pow(lr.s0/(lr.s0+float64(iteration)), lr.p)
}
