// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides first-order descent algorithms for fitting the
// weights of a linear predictor y_hat = X·w.
//
// # Overview
//
// This package contains:
//   - VanillaGradientDescent: full-batch gradient descent
//   - StochasticDescent: uniformly sampled mini-batch gradient descent
//   - MomentumDescent: velocity-smoothed updates
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Regularized: L2 penalty decorator for any of the above
//   - FromConfig: factory building a descent from a named configuration
//
// # Basic Usage
//
//	import (
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/born-ml/descent/optim"
//	)
//
//	func main() {
//	    X := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
//	    y := mat.NewVecDense(3, []float64{1, 1, 2})
//
//	    config := optim.DefaultConfig(2)
//	    config.Lambda = 0.1
//	    d, err := optim.NewVanillaGradientDescent(config)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    for range 1000 {
//	        if _, err := d.Step(X, y); err != nil {
//	            panic(err)
//	        }
//	    }
//	}
//
// # Descents
//
// Momentum:
//
//	d, err := optim.NewMomentumDescent(optim.MomentumConfig{
//	    Config: optim.DefaultConfig(dim),
//	    Beta:   0.9,
//	})
//
// Adam over mini-batches of 32 rows:
//
//	d, err := optim.NewAdam(optim.AdamConfig{
//	    Config:    optim.DefaultConfig(dim),
//	    BatchSize: 32,
//	})
//
// L2 regularization:
//
//	reg, err := optim.NewRegularized(d, 0.01)
//
// # Training Loop Pattern
//
//	for epoch := range numEpochs {
//	    delta, err := d.Step(X, y)
//	    if err != nil {
//	        return err
//	    }
//	    if mat.Norm(delta, 2) < tolerance {
//	        break
//	    }
//	}
//
// A descent owns its weights and optimizer state; it is not safe for
// concurrent use.
package optim
