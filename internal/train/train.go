// Package train drives repeated descent steps over a dataset.
//
// The descents in internal/optim perform exactly one update per Step call;
// Trainer owns the outer loop: iteration budget, convergence test, loss
// history and logging.
package train

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/descent/internal/optim"
)

// Config controls the training loop.
type Config struct {
	MaxIter   int     `mapstructure:"max_iter"`  // Maximum number of steps (default: 1000)
	Tolerance float64 `mapstructure:"tolerance"` // Stop when ||delta||₂ < Tolerance; 0 disables
	LogEvery  int     `mapstructure:"log_every"` // Log progress every N steps; 0 disables
}

// DefaultConfig returns the default training configuration.
func DefaultConfig() Config {
	return Config{
		MaxIter:   1000,
		Tolerance: 1e-6,
		LogEvery:  100,
	}
}

// Result summarizes a training run.
type Result struct {
	Iterations int       // Steps performed
	Converged  bool      // Whether the tolerance was reached
	Loss       float64   // Final training loss
	History    []float64 // Training loss after each logged step
}

// Trainer runs a Descent until convergence or the iteration budget is spent.
type Trainer struct {
	config Config
	log    logrus.FieldLogger
}

// New creates a Trainer. A nil logger discards output.
func New(config Config, log logrus.FieldLogger) *Trainer {
	if config.MaxIter == 0 {
		config.MaxIter = DefaultConfig().MaxIter
	}
	if log == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		log = discard
	}
	return &Trainer{config: config, log: log}
}

// Fit calls d.Step(X, y) repeatedly.
//
// The context is checked between steps; a cancelled context stops training
// and returns the partial result together with ctx.Err(). Step errors abort
// training immediately.
func (t *Trainer) Fit(ctx context.Context, d optim.Descent, X mat.Matrix, y mat.Vector) (*Result, error) {
	if t.config.MaxIter < 0 {
		return nil, errors.Wrapf(optim.ErrInvalidConfiguration, "max_iter = %d", t.config.MaxIter)
	}

	result := &Result{}
	log := t.log.WithField("dimension", d.Dimension())
	log.WithField("max_iter", t.config.MaxIter).Info("training started")

	for result.Iterations < t.config.MaxIter {
		if err := ctx.Err(); err != nil {
			return t.finish(result, d, X, y, log), errors.WithStack(err)
		}

		delta, err := d.Step(X, y)
		if err != nil {
			log.WithError(err).WithField("iteration", result.Iterations).Error("step failed")
			return nil, errors.Wrapf(err, "step %d", result.Iterations+1)
		}
		result.Iterations++

		norm := floats.Norm(delta.RawVector().Data, 2)
		if t.config.LogEvery > 0 && result.Iterations%t.config.LogEvery == 0 {
			loss, err := d.CalcLoss(X, y)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			result.History = append(result.History, loss)
			log.WithFields(logrus.Fields{
				"iteration":     result.Iterations,
				"loss":          loss,
				"delta_norm":    norm,
				"learning_rate": d.LearningRate().Peek(),
			}).Debug("training progress")
		}

		if t.config.Tolerance > 0 && norm < t.config.Tolerance {
			result.Converged = true
			break
		}
	}

	return t.finish(result, d, X, y, log), nil
}

func (t *Trainer) finish(result *Result, d optim.Descent, X mat.Matrix, y mat.Vector, log logrus.FieldLogger) *Result {
	loss, err := d.CalcLoss(X, y)
	if err == nil {
		result.Loss = loss
	}
	log.WithFields(logrus.Fields{
		"iterations": result.Iterations,
		"converged":  result.Converged,
		"loss":       result.Loss,
	}).Info("training finished")
	return result
}
