package optim

import (
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Descent names recognised by FromConfig.
const (
	NameFull       = "full"
	NameStochastic = "stochastic"
	NameMomentum   = "momentum"
	NameAdam       = "adam"
)

// DescentNames lists the valid descent names in canonical order.
var DescentNames = []string{NameFull, NameStochastic, NameMomentum, NameAdam}

// DescentConfig selects and parameterizes a descent instance.
//
// Kwargs uses snake_case keys: dimension, lambda_, s0, p, loss_function,
// huber_delta, seed, mu, batch_size, beta, beta1, beta2, eps.
type DescentConfig struct {
	DescentName string         `mapstructure:"descent_name"`
	Regularized bool           `mapstructure:"regularized"`
	Kwargs      map[string]any `mapstructure:"kwargs"`
}

// Params is the decoded form of DescentConfig.Kwargs.
type Params struct {
	Dimension    int          `mapstructure:"dimension"`
	Lambda       float64      `mapstructure:"lambda_"`
	S0           float64      `mapstructure:"s0"`
	P            float64      `mapstructure:"p"`
	LossFunction LossFunction `mapstructure:"loss_function"`
	HuberDelta   float64      `mapstructure:"huber_delta"`
	Seed         uint64       `mapstructure:"seed"`
	Mu           float64      `mapstructure:"mu"`
	BatchSize    int          `mapstructure:"batch_size"`
	Beta         float64      `mapstructure:"beta"`
	Beta1        float64      `mapstructure:"beta1"`
	Beta2        float64      `mapstructure:"beta2"`
	Eps          float64      `mapstructure:"eps"`
}

// Name returns the selected descent name; empty selects "full".
func (c DescentConfig) Name() string {
	if c.DescentName == "" {
		return NameFull
	}
	return c.DescentName
}

// Params decodes Kwargs for the selected descent. Returns
// ErrUnknownDescentName for unrecognised names.
func (c DescentConfig) Params() (Params, error) {
	name := c.Name()
	if _, ok := variantKeys[name]; !ok {
		return Params{}, errors.WithStack(&UnknownDescentNameError{Name: name, Valid: DescentNames})
	}
	return DecodeParams(name, c.Regularized, c.Kwargs)
}

// commonKeys are accepted by every descent name.
var commonKeys = []string{"dimension", "lambda_", "s0", "p", "loss_function", "huber_delta", "seed"}

// variantKeys are the extra keys each descent name accepts.
var variantKeys = map[string][]string{
	NameFull:       nil,
	NameStochastic: {"batch_size"},
	NameMomentum:   {"beta", "batch_size"},
	NameAdam:       {"beta1", "beta2", "eps", "batch_size"},
}

// FromConfig builds the descent named by config.
//
// An empty DescentName selects "full". When Regularized is set the result is
// wrapped in Regularized with coefficient kwargs["mu"]. Returns
// ErrUnknownDescentName for unrecognised names and ErrInvalidConfiguration
// for kwargs that do not decode, do not apply to the selected descent or are
// out of range.
func FromConfig(config DescentConfig) (Descent, error) {
	name := config.Name()
	params, err := config.Params()
	if err != nil {
		return nil, err
	}

	base := Config{
		Dimension:    params.Dimension,
		Lambda:       params.Lambda,
		S0:           params.S0,
		P:            params.P,
		LossFunction: params.LossFunction,
		HuberDelta:   params.HuberDelta,
		Seed:         params.Seed,
	}

	var d Descent
	switch name {
	case NameFull:
		d, err = NewVanillaGradientDescent(base)
	case NameStochastic:
		d, err = NewStochasticDescent(StochasticConfig{Config: base, BatchSize: params.BatchSize})
	case NameMomentum:
		d, err = NewMomentumDescent(MomentumConfig{Config: base, Beta: params.Beta, BatchSize: params.BatchSize})
	case NameAdam:
		d, err = NewAdam(AdamConfig{
			Config:    base,
			Beta1:     params.Beta1,
			Beta2:     params.Beta2,
			Eps:       params.Eps,
			BatchSize: params.BatchSize,
		})
	}
	if err != nil {
		return nil, err
	}

	if config.Regularized {
		reg, err := NewRegularized(d, params.Mu)
		if err != nil {
			return nil, err
		}
		return reg, nil
	}
	return d, nil
}

// MustFromConfig is like FromConfig but panics on error.
func MustFromConfig(config DescentConfig) Descent {
	d, err := FromConfig(config)
	if err != nil {
		panic(err)
	}
	return d
}

// DecodeParams decodes kwargs for the named descent on top of the defaults
// from DefaultConfig. Keys the descent does not accept are rejected.
func DecodeParams(name string, regularized bool, kwargs map[string]any) (Params, error) {
	defaults := DefaultConfig(0)
	params := Params{
		Lambda:       defaults.Lambda,
		S0:           defaults.S0,
		P:            defaults.P,
		LossFunction: defaults.LossFunction,
		HuberDelta:   defaults.HuberDelta,
	}

	var metadata mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       LossFunctionDecodeHook(),
		ErrorUnused:      true,
		Metadata:         &metadata,
		Result:           &params,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Params{}, errors.WithStack(err)
	}
	if err := decoder.Decode(kwargs); err != nil {
		return Params{}, errors.WithStack(invalidArgument("kwargs", kwargs, err.Error()))
	}

	allowed := make(map[string]bool)
	for _, key := range commonKeys {
		allowed[key] = true
	}
	for _, key := range variantKeys[name] {
		allowed[key] = true
	}
	if regularized {
		allowed["mu"] = true
	}
	var rejected []string
	for _, key := range metadata.Keys {
		if !allowed[key] {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return Params{}, errors.WithStack(invalidArgument(
			"kwargs", strings.Join(rejected, ", "), "not accepted by descent "+name))
	}
	// An explicit s0 is never replaced by the Config fallback.
	if params.S0 <= 0 {
		return Params{}, errors.WithStack(invalidArgument("s0", params.S0, "outside allowed range (0, Inf)"))
	}
	return params, nil
}

// LossFunctionDecodeHook converts loss function names into LossFunction
// values during mapstructure decoding and rejects integers outside the
// supported range.
func LossFunctionDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(MSE) {
			return data, nil
		}
		switch f.Kind() {
		case reflect.String:
			return ParseLossFunction(reflect.ValueOf(data).String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if loss := LossFunction(reflect.ValueOf(data).Int()); !loss.IsValid() {
				return nil, invalidArgument("loss_function", data, "expected one of mse, mae, log_cosh, huber")
			}
		}
		return data, nil
	}
}
