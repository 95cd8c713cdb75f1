// Package config loads the descent CLI configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/born-ml/descent/internal/optim"
	"github.com/born-ml/descent/internal/train"
)

// EnvPrefix is prepended to environment overrides, e.g. DESCENT_TRAIN_MAX_ITER.
const EnvPrefix = "DESCENT"

// Config is the top-level CLI configuration.
type Config struct {
	Descent optim.DescentConfig `mapstructure:"descent"`
	Train   train.Config        `mapstructure:"train"`
	Data    DataConfig          `mapstructure:"data"`
	Report  ReportConfig        `mapstructure:"report"`
	Logging LoggingConfig       `mapstructure:"logging"`
}

// ReportConfig lists the losses printed after training, in addition to the
// loss the descent itself reports.
type ReportConfig struct {
	Losses []optim.LossFunction `mapstructure:"losses"`
}

// DataConfig locates and shapes the training data.
type DataConfig struct {
	Path         string  `mapstructure:"path"`
	Header       bool    `mapstructure:"header"`
	TargetColumn int     `mapstructure:"target_column"` // -1 = last column
	Delimiter    string  `mapstructure:"delimiter"`
	TestRatio    float64 `mapstructure:"test_ratio"`
	Seed         uint64  `mapstructure:"seed"`
}

// LoggingConfig selects the logrus level and formatter.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// CustomHooks are the decode hooks applied when unmarshalling configuration.
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		LossFunctionListHookFunc(","),
		optim.LossFunctionDecodeHook(),
	)),
}

// LossFunctionListHookFunc splits a delimited string such as "mse,mae" so it
// can be decoded into a []optim.LossFunction.
func LossFunctionListHookFunc(sep string) mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]optim.LossFunction{}) {
			return data, nil
		}
		raw := reflect.ValueOf(data).String()
		if raw == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, sep)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	trainDefaults := train.DefaultConfig()
	v.SetDefault("descent.descent_name", optim.NameFull)
	v.SetDefault("descent.regularized", false)
	v.SetDefault("train.max_iter", trainDefaults.MaxIter)
	v.SetDefault("train.tolerance", trainDefaults.Tolerance)
	v.SetDefault("train.log_every", trainDefaults.LogEvery)
	v.SetDefault("data.path", "")
	v.SetDefault("data.header", false)
	v.SetDefault("data.target_column", -1)
	v.SetDefault("data.delimiter", ",")
	v.SetDefault("data.test_ratio", 0.0)
	v.SetDefault("data.seed", 1)
	v.SetDefault("report.losses", []string{optim.MSE.String()})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads path (YAML, JSON or TOML, by extension) when non-empty, applies
// DESCENT_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, CustomHooks...); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if name := c.Descent.DescentName; name != "" && !isDescentName(name) {
		result = multierror.Append(result, &optim.UnknownDescentNameError{Name: name, Valid: optim.DescentNames})
	}
	if c.Train.MaxIter < 0 {
		result = multierror.Append(result, fmt.Errorf("train.max_iter must be >= 0, got %d", c.Train.MaxIter))
	}
	if c.Train.Tolerance < 0 {
		result = multierror.Append(result, fmt.Errorf("train.tolerance must be >= 0, got %v", c.Train.Tolerance))
	}
	if c.Train.LogEvery < 0 {
		result = multierror.Append(result, fmt.Errorf("train.log_every must be >= 0, got %d", c.Train.LogEvery))
	}
	for i, loss := range c.Report.Losses {
		if !loss.IsValid() {
			result = multierror.Append(result, &optim.InvalidConfigurationError{
				Name:    fmt.Sprintf("report.losses[%d]", i),
				Value:   int(loss),
				Message: "expected one of mse, mae, log_cosh, huber",
			})
		}
	}
	if c.Data.TestRatio < 0 || c.Data.TestRatio >= 1 {
		result = multierror.Append(result, fmt.Errorf("data.test_ratio must be in [0, 1), got %v", c.Data.TestRatio))
	}
	if len([]rune(c.Data.Delimiter)) > 1 {
		result = multierror.Append(result, fmt.Errorf("data.delimiter must be a single character, got %q", c.Data.Delimiter))
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "logging.level"))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		result = multierror.Append(result, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func isDescentName(name string) bool {
	for _, valid := range optim.DescentNames {
		if name == valid {
			return true
		}
	}
	return false
}

// ConfigureLogging builds a logrus logger writing to stderr.
func ConfigureLogging(config LoggingConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	switch config.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
