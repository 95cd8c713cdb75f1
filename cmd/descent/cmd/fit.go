package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/descent/internal/config"
	"github.com/born-ml/descent/internal/dataset"
	"github.com/born-ml/descent/internal/optim"
	"github.com/born-ml/descent/internal/train"
)

type fitParams struct {
	configPath string
	dataPath   string
	logLevel   string
	logFormat  string
}

func fitCmd() *cobra.Command {
	params := &fitParams{}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit a linear model to a CSV dataset",
		Long: `Fit loads a configuration file and a CSV dataset, builds the configured
descent and runs the training loop. The final weights and the configured
report losses are printed for the training split and, when data.test_ratio
is set, for the held-out split.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd.Context(), cmd.OutOrStdout(), params)
		},
	}
	cmd.Flags().StringVarP(&params.configPath, "config", "c", "", "Path to a YAML/JSON/TOML config file")
	cmd.Flags().StringVar(&params.dataPath, "data", "", "CSV dataset; overrides data.path")
	cmd.Flags().StringVar(&params.logLevel, "log-level", "", "Log level; overrides logging.level")
	cmd.Flags().StringVar(&params.logFormat, "log-format", "", "text or json; overrides logging.format")
	return cmd
}

func runFit(ctx context.Context, out io.Writer, params *fitParams) error {
	cfg, err := config.Load(params.configPath)
	if err != nil {
		return err
	}
	if params.dataPath != "" {
		cfg.Data.Path = params.dataPath
	}
	if params.logLevel != "" {
		cfg.Logging.Level = params.logLevel
	}
	if params.logFormat != "" {
		cfg.Logging.Format = params.logFormat
	}
	if cfg.Data.Path == "" {
		return errors.New("no dataset: set data.path or pass --data")
	}

	log, err := config.ConfigureLogging(cfg.Logging)
	if err != nil {
		return err
	}

	opts := dataset.CSVOptions{Header: cfg.Data.Header, TargetColumn: cfg.Data.TargetColumn}
	if delimiter := []rune(cfg.Data.Delimiter); len(delimiter) == 1 {
		opts.Comma = delimiter[0]
	}
	ds, err := dataset.LoadCSVFile(cfg.Data.Path, opts)
	if err != nil {
		return err
	}
	trainSet, testSet, err := dataset.Split(ds, cfg.Data.TestRatio, cfg.Data.Seed)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":     cfg.Data.Path,
		"rows":     ds.Len(),
		"features": ds.Features(),
	}).Info("dataset loaded")

	descentConfig := withDefaultDimension(cfg.Descent, ds.Features())
	descentParams, err := descentConfig.Params()
	if err != nil {
		return errors.Wrap(err, "build descent")
	}
	d, err := optim.FromConfig(descentConfig)
	if err != nil {
		return errors.Wrap(err, "build descent")
	}

	result, err := train.New(cfg.Train, log).Fit(ctx, d, trainSet.X, trainSet.Y)
	if err != nil {
		return err
	}

	huberDelta := descentParams.HuberDelta
	if huberDelta == 0 {
		huberDelta = optim.DefaultHuberDelta
	}
	return report(out, d, result, cfg.Report.Losses, huberDelta, trainSet, testSet)
}

// withDefaultDimension fills kwargs["dimension"] from the dataset when the
// config leaves it out.
func withDefaultDimension(c optim.DescentConfig, features int) optim.DescentConfig {
	if _, ok := c.Kwargs["dimension"]; ok {
		return c
	}
	kwargs := make(map[string]any, len(c.Kwargs)+1)
	for k, v := range c.Kwargs {
		kwargs[k] = v
	}
	kwargs["dimension"] = features
	c.Kwargs = kwargs
	return c
}

func report(
	out io.Writer,
	d optim.Descent,
	result *train.Result,
	losses []optim.LossFunction,
	huberDelta float64,
	trainSet, testSet *dataset.Dataset,
) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "iterations\t%d\n", result.Iterations)
	fmt.Fprintf(w, "converged\t%t\n", result.Converged)
	fmt.Fprintf(w, "weights\t%v\n", mat.Formatted(d.Weights().T(), mat.Squeeze()))

	splits := []struct {
		name string
		data *dataset.Dataset
	}{
		{"train", trainSet},
		{"test", testSet},
	}
	for _, split := range splits {
		if split.data == nil {
			continue
		}
		pred, err := d.Predict(split.data.X)
		if err != nil {
			return err
		}
		for _, loss := range losses {
			value := loss.Compute(pred, split.data.Y, huberDelta)
			fmt.Fprintf(w, "%s %s\t%.6g\n", split.name, loss, value)
		}
	}
	return w.Flush()
}
