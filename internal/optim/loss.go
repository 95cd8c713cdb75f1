package optim

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LossFunction selects the scalar loss reported by CalcLoss.
//
// The gradient rules in this package are derived for MSE; the other kinds
// only change what CalcLoss reports.
type LossFunction int

// Supported loss functions.
const (
	MSE LossFunction = iota
	MAE
	LogCosh
	Huber
)

// DefaultHuberDelta is the threshold between the quadratic and linear regions
// of the Huber loss.
const DefaultHuberDelta = 1.0

var lossFunctionNames = map[LossFunction]string{
	MSE:     "mse",
	MAE:     "mae",
	LogCosh: "log_cosh",
	Huber:   "huber",
}

// String returns the canonical lowercase name.
func (l LossFunction) String() string {
	if name, ok := lossFunctionNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LossFunction(%d)", int(l))
}

// IsValid reports whether l is one of the supported loss functions.
func (l LossFunction) IsValid() bool {
	_, ok := lossFunctionNames[l]
	return ok
}

// ParseLossFunction converts a name such as "MSE", "log_cosh" or "LogCosh"
// into a LossFunction.
func ParseLossFunction(name string) (LossFunction, error) {
	normalized := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	for kind, canonical := range lossFunctionNames {
		if strings.ReplaceAll(canonical, "_", "") == normalized {
			return kind, nil
		}
	}
	return 0, invalidArgument("loss_function", name, "expected one of mse, mae, log_cosh, huber")
}

// Compute evaluates the loss between predictions and targets.
//
//	MSE:     mean((t - p)²)
//	MAE:     mean(|t - p|)
//	LogCosh: mean(log(cosh(p - t)))
//	Huber:   mean(r²/2 if |r| <= delta else delta*(|r| - delta/2))
//
// The vectors must have equal, non-zero length.
func (l LossFunction) Compute(pred, target mat.Vector, delta float64) float64 {
	n := target.Len()
	diff := mat.NewVecDense(n, nil)
	diff.SubVec(target, pred)

	switch l {
	case MSE:
		return mat.Dot(diff, diff) / float64(n)
	case MAE:
		var sum float64
		for i := 0; i < n; i++ {
			sum += math.Abs(diff.AtVec(i))
		}
		return sum / float64(n)
	case LogCosh:
		var sum float64
		for i := 0; i < n; i++ {
			sum += logCosh(diff.AtVec(i))
		}
		return sum / float64(n)
	case Huber:
		var sum float64
		for i := 0; i < n; i++ {
			r := math.Abs(diff.AtVec(i))
			if r <= delta {
				sum += 0.5 * r * r
			} else {
				sum += delta * (r - 0.5*delta)
			}
		}
		return sum / float64(n)
	default:
		panic(fmt.Sprintf("optim: unsupported loss function %v", l))
	}
}

// logCosh avoids overflow of cosh for large |x|.
func logCosh(x float64) float64 {
	a := math.Abs(x)
	return a + math.Log1p(math.Exp(-2*a)) - math.Ln2
}
